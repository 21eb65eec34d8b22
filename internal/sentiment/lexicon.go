package sentiment

// Single-token lexicon entries matched against whole words.
var positiveLexicon = []string{
	"great", "good", "excellent", "amazing", "wonderful", "fantastic",
	"happy", "pleased", "satisfied", "love", "like", "enjoy",
	"thanks", "appreciate", "helpful", "perfect",
	"excited", "interested", "yes", "sure",
}

var negativeLexicon = []string{
	"bad", "poor", "terrible", "awful", "horrible", "disappointing",
	"unhappy", "dissatisfied", "dislike", "hate", "annoying", "frustrating",
	"problem", "issue", "complaint", "wrong", "mistake", "error",
	"expensive", "costly", "waste", "difficult", "hard", "confusing",
	"no", "not", "cannot", "never", "fail",
}

// Multi-word phrases matched as substrings before tokenization.
var positivePhrases = []string{
	"thank you", "looking forward",
}

var negativePhrases = []string{
	"won't", "doesn't", "don't",
}
