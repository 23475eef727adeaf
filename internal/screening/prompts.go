package screening

import (
	"fmt"
	"strings"
)

const phrasingPrompt = `You are an AI assistant for a health screening.
Your task is to ask the user the following question.
Keep the question exactly as it is, but introduce it conversationally and ask whether the user agrees with it.
Do not add any other extra text, analysis, or advice. Just ask the question in an engaging and clear manner.

Question: %s
`

const parserPrompt = `You are an expert at interpreting user responses to a yes/no question.
The user was asked the following question:
"%s"

The user responded with:
"%s"

Your task is to classify the user's response into one of two categories: "yes" or "no".
- Respond "yes" if the user agrees, confirms, or indicates the statement applies to them.
- Respond "no" if the user disagrees, denies, or indicates the statement does not apply.
- Do your best to interpret the user's intent or tendency based on their response and return a yes or no.

Provide your output ONLY in JSON format, like this:
{
  "answer": "yes"
}
`

const summaryPrompt = `You are a caring and empathetic AI health assistant.
You have just completed an autism screening with a user.
Your task is to provide a final summary and recommendation.

**Screening Result:** The screening model suggests that %s.
**Model Confidence:** The model's confidence in this result is %s.

**User's Conversation History:**
%s

**Your Instructions:**
1.  **Acknowledge and Thank:** Start by thanking the user for their time and for answering the questions.
2.  **State the Result Empathetically, but Clearly:** Present the screening result and the confidence score. Use gentle and non-alarming, but definitive language.
3.  **Personalize the Response (Subtly):** Briefly and sensitively reference one or two of the user's answers from the conversation history to show you've been listening.
4.  **Crucial Disclaimer:** Stress that this is a **screening tool, not a diagnostic tool**. The results are not a medical diagnosis. This is the most important part of your message.
5.  **Recommend Next Steps:**
    *   If the result is "some traits associated with ASD may be present," strongly recommend consulting a qualified healthcare professional (like a psychologist or psychiatrist) for a formal evaluation.
    *   If the result is "fewer traits associated with ASD were indicated," still recommend speaking with a healthcare provider if they have any ongoing concerns about their well-being.
6.  **Maintain a Supportive Tone:** End on a supportive and encouraging note.
`

const (
	reaskAcknowledgment  = "I see. Let's try that one again just to be sure."
	positiveResultPhrase = "some traits associated with ASD may be present"
	negativeResultPhrase = "fewer traits associated with ASD were indicated"
)

func phrasingFor(questionText string) string {
	return fmt.Sprintf(phrasingPrompt, questionText)
}

func parserFor(questionText, reply string) string {
	return fmt.Sprintf(parserPrompt, questionText, reply)
}

func summaryFor(prediction int, confidence float64, transcript []TranscriptEntry) string {
	phrase := negativeResultPhrase
	if prediction == 1 {
		phrase = positiveResultPhrase
	}
	return fmt.Sprintf(summaryPrompt, phrase, fmt.Sprintf("%.2f%%", confidence*100), renderTranscript(transcript))
}

func renderTranscript(transcript []TranscriptEntry) string {
	lines := make([]string, 0, len(transcript))
	for _, entry := range transcript {
		tag := "User"
		if entry.Speaker == SpeakerAssistant {
			tag = "AI"
		}
		lines = append(lines, tag+": "+entry.Text)
	}
	return strings.Join(lines, "\n")
}
