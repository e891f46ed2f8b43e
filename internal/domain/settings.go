package domain

// Settings are the per-installation scheduling knobs stored as one JSON blob
// on the installation row. Updates replace the whole object; Normalize fills
// any absent key with its default so readers never see a partial table.
type Settings struct {
	// WeekendDays holds weekday indices (0 = Sunday … 6 = Saturday).
	WeekendDays []int `json:"weekendDays"`
	// EstimateDays maps t-shirt sizes to working-day durations.
	EstimateDays map[Estimate]int `json:"estimateDays"`
	// ConfidenceBuffer maps confidence levels to buffer working days.
	ConfidenceBuffer map[Confidence]int `json:"confidenceBuffer"`
}

// DefaultDurationDays is used when an item carries no estimate or the
// estimate is missing from the table.
const DefaultDurationDays = 10

// DefaultEstimateDays returns a fresh copy of the default estimate table.
func DefaultEstimateDays() map[Estimate]int {
	return map[Estimate]int{
		EstimateXS:  2,
		EstimateS:   5,
		EstimateM:   10,
		EstimateL:   15,
		EstimateXL:  25,
		EstimateXXL: 40,
	}
}

// DefaultConfidenceBuffer returns a fresh copy of the default buffer table.
func DefaultConfidenceBuffer() map[Confidence]int {
	return map[Confidence]int{
		ConfidenceHigh:   0,
		ConfidenceMedium: 2,
		ConfidenceLow:    5,
	}
}

// DefaultSettings returns fully populated settings.
func DefaultSettings() Settings {
	return Settings{
		WeekendDays:      []int{0, 6},
		EstimateDays:     DefaultEstimateDays(),
		ConfidenceBuffer: DefaultConfidenceBuffer(),
	}
}

// Normalize fills absent keys with defaults. Explicit zero values survive:
// only missing map keys and a nil weekend slice are defaulted.
func (s *Settings) Normalize() {
	if s.WeekendDays == nil {
		s.WeekendDays = []int{0, 6}
	}
	if s.EstimateDays == nil {
		s.EstimateDays = make(map[Estimate]int, 6)
	}
	for size, days := range DefaultEstimateDays() {
		if _, ok := s.EstimateDays[size]; !ok {
			s.EstimateDays[size] = days
		}
	}
	if s.ConfidenceBuffer == nil {
		s.ConfidenceBuffer = make(map[Confidence]int, 3)
	}
	for level, days := range DefaultConfidenceBuffer() {
		if _, ok := s.ConfidenceBuffer[level]; !ok {
			s.ConfidenceBuffer[level] = days
		}
	}
}

// DurationFor resolves an estimate to working days, falling back to the
// default duration for unset or unknown estimates.
func (s Settings) DurationFor(e Estimate) int {
	if days, ok := s.EstimateDays[e]; ok && e != "" {
		return days
	}
	return DefaultDurationDays
}

// BufferFor resolves a confidence level to buffer working days, falling back
// to the Medium buffer for unset or unknown levels.
func (s Settings) BufferFor(c Confidence) int {
	if days, ok := s.ConfidenceBuffer[c]; ok && c != "" {
		return days
	}
	return s.ConfidenceBuffer[ConfidenceMedium]
}
