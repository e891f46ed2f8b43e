package tracker

import (
	"context"
	"strings"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// optionPalette is the fixed color cycle for auto-created single-select
// options; option i gets color i mod 8.
var optionPalette = []string{
	"GRAY", "BLUE", "GREEN", "YELLOW", "ORANGE", "RED", "PINK", "PURPLE",
}

// ResolveFieldIDs maps the nine logical fields to upstream field ids by
// case-sensitive display-name match, returning the project node id and
// whatever subset exists. Callers cache the result on the project row.
func ResolveFieldIDs(ctx context.Context, client Client, installationID int64, ref ProjectRef) (string, domain.FieldIDs, error) {
	projectID, fields, err := client.ListFields(ctx, installationID, ref)
	if err != nil {
		return "", nil, err
	}

	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.ID
	}

	ids := domain.FieldIDs{}
	for _, name := range domain.KnownFields {
		if id, ok := byName[string(name)]; ok {
			ids[name] = id
		}
	}
	return projectID, ids, nil
}

// EnsureFields creates any of the known fields missing from the project.
// Existence uses a trimmed case-folded comparison, unlike value binding; a
// field renamed only in casing is therefore not re-created. Pro-gated
// fields are skipped on the free plan. Returns the display names created.
func EnsureFields(ctx context.Context, client Client, installationID int64, ref ProjectRef, plan domain.PlanTier) ([]string, error) {
	projectID, fields, err := client.ListFields(ctx, installationID, ref)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(fields))
	for _, f := range fields {
		existing[foldName(f.Name)] = true
	}

	var created []string
	for _, name := range domain.KnownFields {
		if existing[foldName(string(name))] {
			continue
		}
		if domain.ProFields[name] && plan != domain.PlanPro {
			continue
		}

		switch name {
		case domain.FieldEstimate:
			_, err = client.CreateSingleSelectField(ctx, installationID, projectID, string(name), estimateOptions())
		case domain.FieldConfidence:
			_, err = client.CreateSingleSelectField(ctx, installationID, projectID, string(name), confidenceOptions())
		case domain.FieldStatus, domain.FieldPercentComplete:
			// Read-only for the engine; projects bring their own.
			continue
		default:
			_, err = client.CreateDateField(ctx, installationID, projectID, string(name))
		}
		if err != nil {
			return created, err
		}
		created = append(created, string(name))
	}
	return created, nil
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func estimateOptions() []SelectOption {
	opts := make([]SelectOption, 0, len(domain.EstimateOrder))
	for i, e := range domain.EstimateOrder {
		opts = append(opts, SelectOption{Name: string(e), Color: optionPalette[i%len(optionPalette)]})
	}
	return opts
}

func confidenceOptions() []SelectOption {
	opts := make([]SelectOption, 0, len(domain.ConfidenceOrder))
	for i, c := range domain.ConfidenceOrder {
		opts = append(opts, SelectOption{Name: string(c), Color: optionPalette[i%len(optionPalette)]})
	}
	return opts
}
