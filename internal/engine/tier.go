package engine

import (
	"fmt"
	"strings"
)

// Tier selects the inference model class.
type Tier string

const (
	TierPro   Tier = "pro"
	TierFlash Tier = "flash"
)

// ParseTier accepts "pro" or "flash" (case-insensitive). Empty means pro.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case "", TierPro:
		return TierPro, nil
	case TierFlash:
		return TierFlash, nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want pro or flash)", s)
	}
}

// Options configures the model names behind each tier.
type Options struct {
	Tier           Tier
	ProModel       string
	FlashModel     string
	ThinkingBudget int // only sent for the pro tier
}

const (
	defaultProModel       = "gemini-3-pro-preview"
	defaultFlashModel     = "gemini-3-flash-preview"
	defaultThinkingBudget = 32768
)

func (o Options) withDefaults() Options {
	if o.Tier == "" {
		o.Tier = TierPro
	}
	if o.ProModel == "" {
		o.ProModel = defaultProModel
	}
	if o.FlashModel == "" {
		o.FlashModel = defaultFlashModel
	}
	if o.ThinkingBudget == 0 {
		o.ThinkingBudget = defaultThinkingBudget
	}
	return o
}

// model returns the model name and thinking budget for the configured tier.
func (o Options) model() (string, int) {
	if o.Tier == TierFlash {
		return o.FlashModel, 0
	}
	return o.ProModel, o.ThinkingBudget
}
