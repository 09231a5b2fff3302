package derived

import "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"

type financeBand struct {
	upTo          int
	spendingLevel float64
	cashPer       float64
	assetsPer     float64
}

// financeBands follow the 1920s cash and assets table, amounts per point of
// credit rating
var financeBands = []financeBand{
	{upTo: 9, spendingLevel: 2, cashPer: 1, assetsPer: 10},
	{upTo: 49, spendingLevel: 10, cashPer: 2, assetsPer: 50},
	{upTo: 89, spendingLevel: 50, cashPer: 5, assetsPer: 500},
	{upTo: 98, spendingLevel: 250, cashPer: 20, assetsPer: 2000},
}

// Finance returns the finance block for a credit rating
func Finance(creditRating int) coc.Finance {
	f := coc.Finance{CreditRating: creditRating}

	switch {
	case creditRating <= 0:
		f.CreditRating = 0
		f.SpendingLevel = 0.5
		f.Cash = 0.5
	case creditRating >= 99:
		f.SpendingLevel = 5000
		f.Cash = 50000
		f.Assets = 5000000
	default:
		for _, b := range financeBands {
			if creditRating <= b.upTo {
				cr := float64(creditRating)
				f.SpendingLevel = b.spendingLevel
				f.Cash = cr * b.cashPer
				f.Assets = cr * b.assetsPer
				break
			}
		}
	}
	return f
}
