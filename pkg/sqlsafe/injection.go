package sqlsafe

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// QuestionCheckResult describes an injection pattern found in a user
// question.
type QuestionCheckResult struct {
	Fingerprint string
}

// CheckQuestion runs libinjection over a natural-language question before it
// is handed to the translation model. Returns nil when the question is
// clean.
func CheckQuestion(question string) *QuestionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(question)
	if isSQLi {
		return &QuestionCheckResult{Fingerprint: string(fingerprint)}
	}
	return nil
}
