// internal/valuation/estimator.go
package valuation

import "mortgage-workers/internal/models"

// Deterministic estimate parameters.
const (
	pricePerSquareFoot   = 200.0
	defaultPropertyValue = 400000.0
	estimateConfidence   = 75.0
	rangeSpread          = 0.10
)

// propertyTypeFactors adjust the base estimate per property type. Types
// without an entry, including single family, use a factor of 1.
var propertyTypeFactors = map[models.PropertyType]float64{
	models.PropertyCondo:       0.90,
	models.PropertyTownhouse:   0.95,
	models.PropertyMultiFamily: 1.10,
}

// Estimate produces a deterministic valuation from the property
// descriptor alone. It never fails; missing or nil input yields the
// default estimate.
func Estimate(property *models.PropertyInfo) models.Valuation {
	base := defaultPropertyValue
	propertyType := models.PropertyType("")
	if property != nil {
		if property.SquareFootage > 0 {
			base = property.SquareFootage * pricePerSquareFoot
		}
		propertyType = property.Type
	}

	if factor, ok := propertyTypeFactors[propertyType]; ok {
		base *= factor
	}

	return models.Valuation{
		EstimatedValue:  base,
		ConfidenceLevel: models.ConfidenceMedium,
		ConfidenceScore: estimateConfidence,
		Range: models.ValuationRange{
			Min: base * (1 - rangeSpread),
			Max: base * (1 + rangeSpread),
		},
		Flags: models.ValuationFlags{
			HighConfidence:           false,
			MarketStable:             true,
			ComparableDataSufficient: true,
		},
		Source: models.SourceMock,
	}
}
