package service

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/webhook"
	"github.com/rs/zerolog/log"
)

type eventService struct {
	installations InstallationService
	schedules     ScheduleService
	projects      repository.ProjectRepo
	coordinator   *webhook.Coordinator
}

// NewEventService wires webhook dispatch. The coordinator's run function is
// expected to call ScheduleService.Recalculate for the key.
func NewEventService(
	installations InstallationService,
	schedules ScheduleService,
	projects repository.ProjectRepo,
	coordinator *webhook.Coordinator,
) EventService {
	return &eventService{
		installations: installations,
		schedules:     schedules,
		projects:      projects,
		coordinator:   coordinator,
	}
}

func (s *eventService) HandleEvent(ctx context.Context, kind string, body []byte) error {
	switch kind {
	case webhook.EventPing:
		return nil

	case webhook.EventInstallation:
		var ev webhook.InstallationEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return domain.Validationf("malformed installation event: %v", err)
		}
		return s.installations.HandleInstallationEvent(ctx, &ev)

	case webhook.EventIssues:
		var ev webhook.IssuesEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return domain.Validationf("malformed issues event: %v", err)
		}
		return s.handleIssues(ctx, &ev)

	case webhook.EventProjectsItem:
		var ev webhook.ProjectItemEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return domain.Validationf("malformed project item event: %v", err)
		}
		return s.handleProjectItem(ctx, &ev)

	default:
		log.Debug().Str("event", kind).Msg("ignoring webhook event")
		return nil
	}
}

// handleIssues schedules a recomputation for every tracked project of the
// installation. A close also stamps the actual end date first, so the
// recomputation sees the item as completed.
func (s *eventService) handleIssues(ctx context.Context, ev *webhook.IssuesEvent) error {
	switch ev.Action {
	case "closed", "reopened", "edited", "labeled", "unlabeled", "milestoned", "demilestoned":
	default:
		return nil
	}

	if ev.Action == "closed" {
		if err := s.schedules.MarkIssueClosed(ctx, ev.Installation.ID, ev.Issue.Number); err != nil {
			log.Error().Err(err).
				Int64("installation", ev.Installation.ID).
				Int("issue", ev.Issue.Number).
				Msg("stamping closed issue failed")
		}
	}

	projects, err := s.projects.ListByInstallation(ctx, ev.Installation.ID)
	if err != nil {
		return err
	}
	for _, proj := range projects {
		s.coordinator.Schedule(webhook.Key{
			InstallationID: proj.InstallationID,
			ProjectNumber:  proj.ProjectNumber,
		})
	}
	return nil
}

// handleProjectItem schedules the single project the changed item belongs
// to, resolved by project node id. Items of untracked projects are ignored.
func (s *eventService) handleProjectItem(ctx context.Context, ev *webhook.ProjectItemEvent) error {
	projects, err := s.projects.ListByInstallation(ctx, ev.Installation.ID)
	if err != nil {
		return err
	}
	for _, proj := range projects {
		if proj.ExternalID != ev.ProjectsV2Item.ProjectNodeID {
			continue
		}
		s.coordinator.Schedule(webhook.Key{
			InstallationID: proj.InstallationID,
			ProjectNumber:  proj.ProjectNumber,
		})
		return nil
	}
	return nil
}
