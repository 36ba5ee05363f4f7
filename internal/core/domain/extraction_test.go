package domain

import "testing"

func TestRawExtractionSet_Slots(t *testing.T) {
	set := NewRawExtractionSet()
	if !set.IsEmpty() {
		t.Fatal("new set should be empty")
	}
	if set.Slot("XX") != nil {
		t.Error("invalid bureau should have no slot")
	}

	eq := set.Slot(BureauEquifax)
	eq.Present = true
	eq.Score = &ScoreFragment{Provenance: Provenance{Bureau: BureauEquifax, Section: SectionScores, Confidence: ConfidenceExact}, Value: "695"}

	tu := set.Slot(BureauTransUnion)
	tu.Present = true
	tu.PersonalInfo = &PersonalInfoFragment{Name: "JOHN DOE"}
	tu.Tradelines = []TradelineFragment{{CreditorName: "BANK A"}}

	if set.IsEmpty() {
		t.Error("set should not be empty")
	}
	bureaus := set.Bureaus()
	if len(bureaus) != 2 || bureaus[0] != BureauTransUnion || bureaus[1] != BureauEquifax {
		t.Errorf("expected [TU EQ], got %v", bureaus)
	}
	if len(set.Scores()) != 1 || set.Scores()[0].Bureau != BureauEquifax {
		t.Errorf("unexpected scores %v", set.Scores())
	}
	if len(set.PersonalInfo()) != 1 || len(set.Tradelines()) != 1 {
		t.Error("unexpected fragment counts")
	}
	if set.Slots[1].Bureau != BureauExperian {
		t.Errorf("slot 1 should be stamped EX, got %s", set.Slots[1].Bureau)
	}
}

func TestConfidence_Rank(t *testing.T) {
	if ConfidenceExact.Rank() <= ConfidenceHeuristic.Rank() {
		t.Error("exact must outrank heuristic")
	}
	if Confidence("").Rank() != 0 {
		t.Error("unset confidence should rank lowest")
	}
}
