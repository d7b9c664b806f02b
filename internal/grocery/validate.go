package grocery

import (
	"errors"
	"strings"

	"github.com/dukerupert/provisions/internal/model"
)

var ErrValidation = errors.New("validation failed")

// ValidationError lists every problem found in one input.
type ValidationError struct {
	Problems []string `json:"problems"`
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func result(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// ValidateItem checks an item form: a name, a positive quantity and
// non-negative prices.
func ValidateItem(input model.ItemInput) error {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if input.Quantity.Float() <= 0 {
		problems = append(problems, "quantity must be greater than 0")
	}
	problems = append(problems, checkPrices(input.BuyPrice, input.SellPrice)...)
	return result(problems)
}

// ValidatePatch applies the ValidateItem rules to the fields a patch sets.
func ValidatePatch(patch model.ItemPatch) error {
	var problems []string
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		problems = append(problems, "name is required")
	}
	if patch.Quantity != nil && patch.Quantity.Float() <= 0 {
		problems = append(problems, "quantity must be greater than 0")
	}
	if patch.BuyPrice != nil && patch.BuyPrice.Float() < 0 {
		problems = append(problems, "buy price cannot be negative")
	}
	if patch.SellPrice != nil && patch.SellPrice.Float() < 0 {
		problems = append(problems, "sell price cannot be negative")
	}
	return result(problems)
}

// ValidatePoolItem checks a template: a name and non-negative prices.
func ValidatePoolItem(input model.PoolItemInput) error {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	problems = append(problems, checkPrices(input.SuggestedBuyPrice, input.SuggestedSellPrice)...)
	return result(problems)
}

func checkPrices(buy, sell model.Number) []string {
	var problems []string
	if buy.Float() < 0 {
		problems = append(problems, "buy price cannot be negative")
	}
	if sell.Float() < 0 {
		problems = append(problems, "sell price cannot be negative")
	}
	return problems
}

// ValidateRange checks that both bounds are dates and from is not after to.
// Malformed bounds wrap model.ErrInvalidDate.
func ValidateRange(from, to string) error {
	f, err := model.ParseDate(from)
	if err != nil {
		return err
	}
	t, err := model.ParseDate(to)
	if err != nil {
		return err
	}
	if f.After(t) {
		return result([]string{"start date must not be after end date"})
	}
	return nil
}
