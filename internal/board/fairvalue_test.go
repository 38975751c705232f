package board

import "testing"

func TestCompareFairValue(t *testing.T) {
	price := func(n int) *SitePrice { return &SitePrice{Site: "A", Price: n} }
	tests := []struct {
		name string
		fair int
		best BestOdds
		want Verdict
	}{
		{"over value", 120, BestOdds{Over: price(150), Under: price(-150)}, Verdict{Over: true}},
		{"no value", 300, BestOdds{Over: price(250), Under: price(-400)}, Verdict{}},
		{"under value", 300, BestOdds{Over: price(250), Under: price(-250)}, Verdict{Under: true}},
		{"equal is not value", 150, BestOdds{Over: price(150)}, Verdict{}},
		{"both sides flagged", -200, BestOdds{Over: price(-150), Under: price(250)}, Verdict{Over: true, Under: true}},
		{"missing sides", 120, BestOdds{}, Verdict{}},
		{"no data", -500, BestOdds{NoData: true}, Verdict{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareFairValue(tt.fair, tt.best)
			if got != tt.want {
				t.Errorf("CompareFairValue(%d) = %+v, want %+v", tt.fair, got, tt.want)
			}
			if got.Any() != (tt.want.Over || tt.want.Under) {
				t.Errorf("Any() = %v", got.Any())
			}
		})
	}
}
