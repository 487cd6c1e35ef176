// Package dataset fixes the schema of the Global Findex "DatabankWide" workbook:
// which columns are ever exposed, which must be present in a row, and how missing
// values are filled by default.
//
// Column names match the workbook byte for byte, including its misspellings.
package dataset

import (
	"strings"

	"github.com/KaramelBytes/findex-cli/internal/clean"
)

// DefaultSource is the published location of the workbook.
const DefaultSource = "https://github.com/Cheide20/assignments/raw/main/DatabankWide.xlsx"

const (
	CountryName     = "Country name"
	CountryCode     = "Country code"
	Year            = "Year"
	AdultPopulation = "Adult populaiton"
	Region          = "Region"
	IncomeGroup     = "Income group"

	Account                  = "Account (% age 15+)"
	FinInstAccount           = "Financial institution account (% age 15+)"
	FirstAccountWageOrGov    = "First financial institution account ever was opened to receive a wage payment or money from the government (% age 15+)"
	FirstAccountWage         = "First financial institution account ever was opened to receive a wage payment (% age 15+)"
	FirstAccountGov          = "First financial institution ever account was opened to receive money from the government (% age 15+)"
	OwnsCreditCard           = "Owns a credit card (% age 15+)"
	UsedCreditCard           = "Used a credit card (% age 15+)"
	UsedCreditCardInStore    = "Used a credit card: in-store (% age 15+)"
	UsedCreditCardInStoreOfU = "Used a credit card: in-store (% who used a credit card, age 15+)"
	PaidOffCreditCard        = "Paid off all credit card balances in full by their due date (% age 15+)"
	PaidOffCreditCardOfU     = "Paid off all credit card balances in full by their due date (% who used a credit card, age 15+)"
	OwnsDebitCard            = "Owns a debit card (% age 15+)"
	UsedDebitCard            = "Used a debit card (% age 15+)"
	UsedDebitCardInStore     = "Used a debit card in-store (% age 15+)"
	UsedDebitCardInStoreOfU  = "Used a debit card: in-store (% who used a debit card, age 15+)"
	OwnsCard                 = "Owns a debit or credit card (% age 15+)"
	UsedCard                 = "Used a debit or credit card (% age 15+)"
	UsesCardInStore          = "Uses a debit or credit card: in-store (% age 15+)"
	UsedCardInStoreOfU       = "Used a debit or credit card: in-store (% who use a credit or debit card, age 15+)"
)

// AllowList returns the columns the tool will ever expose, in display order.
func AllowList() []string {
	return []string{
		CountryName, CountryCode, Year, AdultPopulation, Region, IncomeGroup,
		Account, FinInstAccount,
		FirstAccountWageOrGov, FirstAccountWage, FirstAccountGov,
		OwnsCreditCard, UsedCreditCard,
		UsedCreditCardInStore, UsedCreditCardInStoreOfU,
		PaidOffCreditCard, PaidOffCreditCardOfU,
		OwnsDebitCard, UsedDebitCard,
		UsedDebitCardInStore, UsedDebitCardInStoreOfU,
		OwnsCard, UsedCard,
		UsesCardInStore, UsedCardInStoreOfU,
	}
}

// Required returns the columns every kept row must have a value for.
func Required() []string {
	return []string{Region, IncomeGroup, AdultPopulation}
}

// DefaultRules returns the imputation strategy per column.
// Columns not listed keep their missing values.
func DefaultRules() clean.Rules {
	return clean.Rules{
		FirstAccountWageOrGov: clean.Mean,
		UsedCreditCardInStore: clean.Median,
		PaidOffCreditCard:     clean.Mean,
		OwnsCreditCard:        clean.Zero,
		AdultPopulation:       clean.Mean,
		IncomeGroup:           clean.ForwardFill,
		FinInstAccount:        clean.Median,
		UsedDebitCardInStore:  clean.Median,
		OwnsDebitCard:         clean.Zero,
		UsedDebitCard:         clean.Median,
		UsesCardInStore:       clean.Median,
	}
}

// Lookup returns the allow-listed spelling of name, matched case-insensitively.
func Lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, n := range AllowList() {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
