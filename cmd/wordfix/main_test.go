package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntilDoneReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	block := make(chan struct{})
	defer close(block)

	result := make(chan error, 1)
	go func() {
		result <- untilDone(ctx, func() error {
			<-block
			return nil
		})
	}()
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("untilDone did not return after cancel")
	}
}

func TestUntilDonePassesLoopError(t *testing.T) {
	errLoop := errors.New("stdin closed")
	err := untilDone(context.Background(), func() error { return errLoop })
	assert.ErrorIs(t, err, errLoop)
}
