package business

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// VatBreakdown is the derived part of a business transaction
type VatBreakdown struct {
	GrossAmount decimal.Decimal
	VatAmount   decimal.Decimal
	VatRate     decimal.Decimal
}

// ComputeVat derives the gross amount and VAT rate from the caller-supplied
// net and VAT amounts. Exempt income overrides any supplied VAT to zero and
// collapses gross to net. The gross is rounded to 2 decimal places and the
// rate to the nearest integer percentage.
func ComputeVat(net, vat decimal.Decimal, txType Type, exemption bool) VatBreakdown {
	if txType == TypeIncome && exemption {
		return VatBreakdown{
			GrossAmount: net.Round(2),
			VatAmount:   decimal.Zero,
			VatRate:     decimal.Zero,
		}
	}

	rate := decimal.Zero
	if net.IsPositive() && vat.IsPositive() {
		rate = vat.Div(net).Mul(oneHundred).Round(0)
	}

	return VatBreakdown{
		GrossAmount: net.Add(vat).Round(2),
		VatAmount:   vat.Round(2),
		VatRate:     rate,
	}
}
