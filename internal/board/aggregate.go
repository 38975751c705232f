package board

// SitePrice é o melhor preço de um lado e a casa que o oferece
type SitePrice struct {
	Site  string `json:"site"`
	Price int    `json:"price"`
}

// BestOdds é o resultado da agregação de um registro
// NoData sinaliza que não havia cotação alguma (nada foi calculado)
type BestOdds struct {
	NoData bool       `json:"noData"`
	Over   *SitePrice `json:"over,omitempty"`
	Under  *SitePrice `json:"under,omitempty"`
}

// Aggregate escolhe o maior over e o maior under entre as casas
// Em odds americanas o maior número é sempre o melhor pagamento, com qualquer sinal
// Empate exato mantém a primeira casa na ordem do mapeamento
func Aggregate(q *OddsQuote) BestOdds {
	if q == nil || len(q.Sites) == 0 {
		return BestOdds{NoData: true}
	}
	var best BestOdds
	for _, s := range q.Sites {
		best.Over = better(best.Over, s.Site, s.Over)
		best.Under = better(best.Under, s.Site, s.Under)
	}
	return best
}

func better(cur *SitePrice, site string, price *int) *SitePrice {
	if price == nil {
		return cur
	}
	if cur == nil || *price > cur.Price {
		return &SitePrice{Site: site, Price: *price}
	}
	return cur
}
