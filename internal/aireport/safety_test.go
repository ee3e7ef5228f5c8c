package aireport

import "testing"

func TestNoGuaranteeLanguage(t *testing.T) {
	var v Violations
	v.NoGuaranteeLanguage("label", "Strong varsity potential", GuaranteeLanguage)
	if !v.OK() {
		t.Fatalf("clean label should pass: %v", v.List())
	}

	// Matching is case-insensitive and works inside larger words and phrases.
	v.NoGuaranteeLanguage("label", "Guaranteed D1 starter", GuaranteeLanguage)
	if got := v.List(); len(got) != 1 || got[0] != "label cannot contain guarantee language: 'guaranteed'" {
		t.Fatalf("unexpected violations: %v", got)
	}
}

func TestNoGuaranteeLanguageHeadlineVocabulary(t *testing.T) {
	var v Violations
	v.NoGuaranteeLanguage("headline", "College bound point guard with elite vision", RecruitingClaims)
	if got := v.List(); len(got) != 1 || got[0] != "headline cannot contain guarantee language: 'college bound'" {
		t.Fatalf("unexpected violations: %v", got)
	}
}

func TestNoMedicalAdvice(t *testing.T) {
	var v Violations
	v.NoMedicalAdvice("growth_summary", "Keep working on left-hand finishing.")
	if !v.OK() {
		t.Fatalf("clean text should pass: %v", v.List())
	}

	v.NoMedicalAdvice("growth_summary", "Consider injury treatment before the next game.")
	if got := v.List(); len(got) != 1 || got[0] != "growth_summary cannot contain medical advice: 'injury treatment'" {
		t.Fatalf("unexpected violations: %v", got)
	}
}

func TestNoRecruitingGuarantees(t *testing.T) {
	var v Violations
	v.NoRecruitingGuarantees("motivational_message", "This player definitely will earn a scholarship.")
	if got := v.List(); len(got) != 1 || got[0] != "motivational_message cannot contain recruiting guarantees: 'definitely will'" {
		t.Fatalf("unexpected violations: %v", got)
	}
}

func TestMustMentionAny(t *testing.T) {
	var v Violations
	v.MustMentionAny("meta.disclaimer", "Results are not a promise of future performance.",
		"no guarantees or promises", "guarantee", "promise")
	if !v.OK() {
		t.Fatalf("disclaimer mentioning 'promise' should pass: %v", v.List())
	}

	v.MustMentionAny("meta.disclaimer", "This report is informational only.",
		"no guarantees or promises", "guarantee", "promise")
	if got := v.List(); len(got) != 1 || got[0] != "meta.disclaimer must mention no guarantees or promises" {
		t.Fatalf("unexpected violations: %v", got)
	}
}
