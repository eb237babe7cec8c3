package dictionary

// englishContractions maps the apostrophe-less spelling people type on a
// phone keyboard to the canonical contraction.
var englishContractions = map[string]string{
	"arent":    "aren't",
	"cant":     "can't",
	"couldnt":  "couldn't",
	"couldve":  "could've",
	"didnt":    "didn't",
	"doesnt":   "doesn't",
	"dont":     "don't",
	"hadnt":    "hadn't",
	"hasnt":    "hasn't",
	"havent":   "haven't",
	"hed":      "he'd",
	"hes":      "he's",
	"id":       "i'd",
	"ill":      "i'll",
	"im":       "i'm",
	"isnt":     "isn't",
	"itd":      "it'd",
	"itll":     "it'll",
	"its":      "it's",
	"ive":      "i've",
	"lets":     "let's",
	"mightnt":  "mightn't",
	"mustnt":   "mustn't",
	"shant":    "shan't",
	"shed":     "she'd",
	"shes":     "she's",
	"shouldnt": "shouldn't",
	"shouldve": "should've",
	"thats":    "that's",
	"theres":   "there's",
	"theyd":    "they'd",
	"theyll":   "they'll",
	"theyre":   "they're",
	"theyve":   "they've",
	"wasnt":    "wasn't",
	"wed":      "we'd",
	"werent":   "weren't",
	"weve":     "we've",
	"whats":    "what's",
	"wheres":   "where's",
	"whos":     "who's",
	"wont":     "won't",
	"wouldnt":  "wouldn't",
	"wouldve":  "would've",
	"youd":     "you'd",
	"youll":    "you'll",
	"youre":    "you're",
	"youve":    "you've",
}

// DefaultContractions returns a copy of the built-in English contraction table.
func DefaultContractions() map[string]string {
	out := make(map[string]string, len(englishContractions))
	for k, v := range englishContractions {
		out[k] = v
	}
	return out
}
