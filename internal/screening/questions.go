package screening

import "fmt"

// AnswerLabel is the interpreted category of a free-text reply.
type AnswerLabel string

const (
	LabelAffirmative   AnswerLabel = "yes"
	LabelNegative      AnswerLabel = "no"
	LabelIndeterminate AnswerLabel = "unsure"
)

// Question is one item of the fixed interview sequence.
type Question struct {
	Key       string
	Text      string
	Screening bool // contributes to the aggregate score
}

// Questions is the master sequence, in interview order. The keys and the
// "jundice" spelling come from the public screening dataset the classifier
// was trained on.
var Questions = []Question{
	{Key: "A1", Text: "I often notice small sounds when others do not.", Screening: true},
	{Key: "A2", Text: "I usually concentrate more on the whole picture, rather than the small details.", Screening: true},
	{Key: "A3", Text: "I find it easy to do more than one thing at once.", Screening: true},
	{Key: "A4", Text: "If there is an interruption, I can switch back to what I was doing very quickly.", Screening: true},
	{Key: "A5", Text: "I find it easy to 'read between the lines' when someone is talking to me.", Screening: true},
	{Key: "A6", Text: "I know how to tell if someone listening to me is getting bored.", Screening: true},
	{Key: "A7", Text: "When I'm reading a story I find it difficult to work out the characters' intentions.", Screening: true},
	{Key: "A8", Text: "I like to collect information about categories of things (e.g. types of car, types of bird, types of train, types of plant etc).", Screening: true},
	{Key: "A9", Text: "I find it easy to work out what someone is thinking or feeling just by looking at their face.", Screening: true},
	{Key: "A10", Text: "I find it difficult to work out people's intentions.", Screening: true},
	{Key: "jundice", Text: "Were you born with jaundice (a yellowing of the skin or eyes)?", Screening: false},
	{Key: "austim", Text: "Does anyone in your immediate family have a diagnosis of autism?", Screening: false},
}

// scoringTable maps (question key, interpreted label) to the model's feature
// value. Several screening items are reverse scored: agreeing with them
// counts as zero.
var scoringTable = map[string]map[AnswerLabel]int{
	"A1":      {LabelAffirmative: 1, LabelNegative: 0},
	"A2":      {LabelAffirmative: 0, LabelNegative: 1},
	"A3":      {LabelAffirmative: 0, LabelNegative: 1},
	"A4":      {LabelAffirmative: 0, LabelNegative: 1},
	"A5":      {LabelAffirmative: 0, LabelNegative: 1},
	"A6":      {LabelAffirmative: 0, LabelNegative: 1},
	"A7":      {LabelAffirmative: 1, LabelNegative: 0},
	"A8":      {LabelAffirmative: 1, LabelNegative: 0},
	"A9":      {LabelAffirmative: 0, LabelNegative: 1},
	"A10":     {LabelAffirmative: 1, LabelNegative: 0},
	"jundice": {LabelAffirmative: 1, LabelNegative: 0},
	"austim":  {LabelAffirmative: 1, LabelNegative: 0},
}

// MasterKeys returns the ordered question keys as a fresh slice.
func MasterKeys() []string {
	keys := make([]string, len(Questions))
	for i, q := range Questions {
		keys[i] = q.Key
	}
	return keys
}

// QuestionByKey looks up a question in the master sequence.
func QuestionByKey(key string) (Question, bool) {
	for _, q := range Questions {
		if q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}

// IsScreeningItem reports whether key is one of the aggregate-scored items.
func IsScreeningItem(key string) bool {
	q, ok := QuestionByKey(key)
	return ok && q.Screening
}

// TotalQuestions returns the length of the master sequence.
func TotalQuestions() int {
	return len(Questions)
}

// FeatureValue maps an interpreted answer through the scoring table.
// Indeterminate answers never reach the table; they trigger a re-ask.
func FeatureValue(key string, label AnswerLabel) (int, error) {
	row, ok := scoringTable[key]
	if !ok {
		return 0, fmt.Errorf("screening: unknown question key %q", key)
	}
	value, ok := row[label]
	if !ok {
		return 0, fmt.Errorf("screening: label %q for question %q has no feature value", label, key)
	}
	return value, nil
}
