package balance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chris/rotmarket/pkg/models"
)

// FeeSchedule resolves the seller percentage for a seller's role.
type FeeSchedule struct {
	Default   int64
	Overrides map[models.Role]int64
}

// NewFeeSchedule builds a schedule with the given default percentage.
func NewFeeSchedule(defaultPct int64, overrides map[models.Role]int64) (*FeeSchedule, error) {
	if defaultPct < 0 || defaultPct > 100 {
		return nil, fmt.Errorf("default %w", ErrInvalidPct)
	}
	for role, pct := range overrides {
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %q in fee overrides", role)
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("role %s: %w", role, ErrInvalidPct)
		}
	}
	return &FeeSchedule{Default: defaultPct, Overrides: overrides}, nil
}

// SellerPct returns the seller percentage applied to a sale by a seller with role.
func (f *FeeSchedule) SellerPct(role models.Role) int64 {
	if pct, ok := f.Overrides[role]; ok {
		return pct
	}
	return f.Default
}

// ParseOverrides parses "role=pct,role=pct" pairs.
func ParseOverrides(raw string) (map[models.Role]int64, error) {
	overrides := make(map[models.Role]int64)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return overrides, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		role, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid fee override %q", pair)
		}
		pct, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fee override %q: %w", pair, err)
		}
		overrides[models.Role(strings.ToLower(strings.TrimSpace(role)))] = pct
	}
	return overrides, nil
}
