package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/hr-prediction-board/internal/board"
)

// Price é o melhor preço de um lado, já formatado com sinal
type Price struct {
	Site string `json:"site"`
	Odds string `json:"odds"`
}

// Row é uma linha da tabela pronta para exibição
type Row struct {
	PlayerName      string `json:"playerName"`
	Team            string `json:"team"`
	OpposingPitcher string `json:"opposingPitcher"`
	Model           string `json:"model"`
	Probability     string `json:"probability"` // 3 casas decimais
	ModelOdds       string `json:"modelOdds"`
	Outcome         string `json:"outcome"`

	BestOver  *Price `json:"bestOver,omitempty"`
	BestUnder *Price `json:"bestUnder,omitempty"`
	NoOdds    string `json:"noOdds,omitempty"` // texto quando não há cotação alguma

	ValueOver  bool `json:"valueOver"`
	ValueUnder bool `json:"valueUnder"`

	StatsTooltip board.Tooltip `json:"statsTooltip"`
	OddsTooltip  board.Tooltip `json:"oddsTooltip"`
}

// Page é a resposta de GET /v1/predictions e das mensagens "page" do websocket
type Page struct {
	Date        string          `json:"date"`
	View        board.ViewState `json:"view"`
	Rows        []Row           `json:"rows"`
	Total       int             `json:"total"`
	PageCount   int             `json:"pageCount"`
	PadRows     int             `json:"padRows"`
	PageSizes   []int           `json:"pageSizes"`
	EarlySeason bool            `json:"earlySeason"`
}

// FromPage converte a página montada pelo pipeline na resposta da API
func FromPage(date string, v board.ViewState, p board.Page, cfg board.Config) Page {
	rows := make([]Row, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, fromRow(r, cfg))
	}
	v.PageIndex, v.PageSize = p.PageIndex, p.PageSize

	early := false
	if d, err := board.ParseDate(date); err == nil {
		early = board.EarlySeason(d, cfg.EarlySeasonUntil)
	}

	return Page{
		Date:        date,
		View:        v,
		Rows:        rows,
		Total:       p.Total,
		PageCount:   pageCount(p.Total, p.PageSize),
		PadRows:     p.PadRows,
		PageSizes:   cfg.PageSizes,
		EarlySeason: early,
	}
}

func fromRow(r board.Row, cfg board.Config) Row {
	out := Row{
		PlayerName:      r.PlayerName,
		Team:            r.Team,
		OpposingPitcher: r.OpposingPitcher,
		Model:           r.Model,
		Probability:     decimal.NewFromFloat(r.Probability).StringFixed(3),
		ModelOdds:       board.FormatAmerican(r.ModelOdds),
		Outcome:         r.Outcome.String(),
		ValueOver:       r.Value.Over,
		ValueUnder:      r.Value.Under,
		StatsTooltip:    r.StatsTip,
		OddsTooltip:     r.OddsTip,
	}
	if r.Best.NoData {
		out.NoOdds = cfg.NoDataText
		return out
	}
	out.BestOver = price(r.Best.Over)
	out.BestUnder = price(r.Best.Under)
	return out
}

func price(sp *board.SitePrice) *Price {
	if sp == nil {
		return nil
	}
	return &Price{Site: sp.Site, Odds: board.FormatAmerican(sp.Price)}
}

func pageCount(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
