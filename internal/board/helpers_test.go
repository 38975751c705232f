package board

import (
	"encoding/json"
	"testing"
)

func intp(n int) *int { return &n }

func quote(t *testing.T, js string) *OddsQuote {
	t.Helper()
	var q OddsQuote
	if err := json.Unmarshal([]byte(js), &q); err != nil {
		t.Fatalf("unmarshal quote: %v", err)
	}
	return &q
}

func names(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PlayerName
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleRecords() []Record {
	return []Record{
		{PlayerName: "Aaron Judge", Team: "NYY", Model: "v2", Probability: 0.31, ModelOdds: 223, Outcome: OutcomeYes},
		{PlayerName: "Shohei Ohtani", Team: "LAD", Model: "v2", Probability: 0.27, ModelOdds: 270, Outcome: OutcomeNo},
		{PlayerName: "Ronald Acuña Jr.", Team: "ATL", Model: "v1", Probability: 0.18, ModelOdds: 456, Outcome: OutcomeUnknown},
		{PlayerName: "Juan Soto", Team: "NYY", Model: "v1", Probability: 0.22, ModelOdds: 355, Outcome: OutcomeNo},
		{PlayerName: "Pete Alonso", Team: "NYM", Model: "v2", Probability: 0.24, ModelOdds: 317, Outcome: OutcomeUnknown},
	}
}

func manyRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{PlayerName: "Player " + string(rune('A'+i%26)) + string(rune('a'+i/26)), ModelOdds: 100 + i}
	}
	return out
}
