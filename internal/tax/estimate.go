package tax

type Estimate struct {
	CurrentTax                 float64 `json:"currentTax"`
	EstimatedPostAnnexationTax float64 `json:"estimatedPostAnnexationTax"`
	VillageLevyAmount          float64 `json:"villageLevyAmount"`
	VillageLevyRate            float64 `json:"villageLevyRate"`
	EAV                        float64 `json:"eav"`
	Difference                 float64 `json:"difference"`
	PercentIncrease            float64 `json:"percentIncrease"`
	MonthlyIncrease            float64 `json:"monthlyIncrease"`
}

// Estimate adds the village levy to an existing bill. Other districts are
// unchanged by annexation.
func (r *Rates) Estimate(eav, currentTax float64) Estimate {
	levy := eav / 100 * r.Village.Rate
	var pct float64
	if currentTax > 0 {
		pct = levy / currentTax * 100
	}
	return Estimate{
		CurrentTax:                 currentTax,
		EstimatedPostAnnexationTax: currentTax + levy,
		VillageLevyAmount:          levy,
		VillageLevyRate:            r.Village.Rate,
		EAV:                        eav,
		Difference:                 levy,
		PercentIncrease:            pct,
		MonthlyIncrease:            levy / 12,
	}
}

type BodyShare struct {
	Body
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type Breakdown struct {
	TaxingBodies            []BodyShare `json:"taxingBodies"`
	VillageLevyBody         BodyShare   `json:"villageLevyBody"`
	TotalCurrentRate        float64     `json:"totalCurrentRate"`
	TotalPostAnnexationRate float64     `json:"totalPostAnnexationRate"`
}

// Breakdown splits the post-annexation bill by district. The table's
// average rates are scaled so they sum to the owner's effective rate; with
// no current bill the averages are used as is. Percentages are shares of
// the post-annexation total.
func (r *Rates) Breakdown(eav, currentTax float64) Breakdown {
	nonVillage := r.NonVillageRate()
	effective := nonVillage
	if currentTax > 0 && eav > 0 {
		effective = currentTax / eav * 100
	}
	scale := effective / nonVillage

	levy := eav / 100 * r.Village.Rate
	total := currentTax + levy

	shares := make([]BodyShare, 0, len(r.Bodies))
	for _, b := range r.Bodies {
		b.Rate *= scale
		amount := eav / 100 * b.Rate
		shares = append(shares, BodyShare{Body: b, Amount: amount, Percentage: share(amount, total)})
	}

	return Breakdown{
		TaxingBodies:            shares,
		VillageLevyBody:         BodyShare{Body: r.Village, Amount: levy, Percentage: share(levy, total)},
		TotalCurrentRate:        effective,
		TotalPostAnnexationRate: effective + r.Village.Rate,
	}
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

type Revenue struct {
	Population      int     `json:"population"`
	LGDFPerResident float64 `json:"lgdfPerResident"`
	MFTPerResident  float64 `json:"mftPerResident"`
	LGDFRevenue     float64 `json:"lgdfRevenue"`
	MFTRevenue      float64 `json:"mftRevenue"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// RevenueFor is the state-shared revenue (income tax LGDF and motor fuel tax)
// the village would receive per year for population residents.
func (r *Rates) RevenueFor(population int) Revenue {
	p := float64(population)
	lgdf := p * r.Revenue.LGDFPerResident
	mft := p * r.Revenue.MFTPerResident
	return Revenue{
		Population:      population,
		LGDFPerResident: r.Revenue.LGDFPerResident,
		MFTPerResident:  r.Revenue.MFTPerResident,
		LGDFRevenue:     lgdf,
		MFTRevenue:      mft,
		TotalRevenue:    lgdf + mft,
	}
}
