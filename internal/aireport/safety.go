package aireport

import "strings"

// Safety vocabularies for youth-sports content. Matching is case-insensitive
// substring containment: "Guaranteed Scholarship!" must trip the same checks
// the model was told about in the system prompt.
var (
	// GuaranteeLanguage is banned from fit/projection labels.
	GuaranteeLanguage = []string{"guaranteed", "definitely", "will get", "assured"}

	// RecruitingClaims is banned from profile headlines.
	RecruitingClaims = []string{"guaranteed scholarship", "will be recruited", "college bound"}

	// MedicalAdvice is banned from narrative sections.
	MedicalAdvice = []string{"diagnose", "treatment", "medication", "injury treatment", "see a doctor"}

	// RecruitingGuarantees is banned from narrative sections.
	RecruitingGuarantees = []string{"guaranteed scholarship", "definitely will", "assured acceptance"}
)

// firstBanned returns the first vocabulary term contained in text.
func firstBanned(text string, terms []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

// NoGuaranteeLanguage rejects fields that promise recruiting outcomes.
func (v *Violations) NoGuaranteeLanguage(field, value string, terms []string) {
	if term, found := firstBanned(value, terms); found {
		v.Addf("%s cannot contain guarantee language: '%s'", field, term)
	}
}

// NoMedicalAdvice rejects fields that drift into diagnosis or treatment.
func (v *Violations) NoMedicalAdvice(field, value string) {
	if term, found := firstBanned(value, MedicalAdvice); found {
		v.Addf("%s cannot contain medical advice: '%s'", field, term)
	}
}

// NoRecruitingGuarantees rejects fields that promise scholarships or offers.
func (v *Violations) NoRecruitingGuarantees(field, value string) {
	if term, found := firstBanned(value, RecruitingGuarantees); found {
		v.Addf("%s cannot contain recruiting guarantees: '%s'", field, term)
	}
}

// MustMentionAny requires at least one of the given terms to appear, used for
// disclaimers that have to acknowledge uncertainty.
func (v *Violations) MustMentionAny(field, value, requirement string, terms ...string) {
	lower := strings.ToLower(value)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return
		}
	}
	v.Addf("%s must mention %s", field, requirement)
}
