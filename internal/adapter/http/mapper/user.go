package mapper

import (
	"time"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/core/domain"
)

func ToUserItems(users []domain.User) []dto.UserItem {
	items := make([]dto.UserItem, 0, len(users))
	for _, user := range users {
		items = append(items, ToUserItem(user))
	}
	return items
}

func ToUserItem(user domain.User) dto.UserItem {
	item := dto.UserItem{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}
	if !user.CreatedAt.IsZero() {
		item.CreatedAt = user.CreatedAt.UTC().Format(time.RFC3339)
	}
	return item
}

func ToPrincipal(p domain.Principal) dto.Principal {
	return dto.Principal{ID: p.ID, DisplayName: p.DisplayName, Role: string(p.Role)}
}

func ToReportItems(reports []domain.TaskReport) []dto.ReportItem {
	items := make([]dto.ReportItem, 0, len(reports))
	for _, report := range reports {
		items = append(items, ToReportItem(report))
	}
	return items
}

func ToReportItem(report domain.TaskReport) dto.ReportItem {
	return dto.ReportItem{
		ID:            report.ID,
		TaskID:        report.TaskID,
		TaskTitle:     report.TaskTitle,
		CreatedBy:     report.CreatedBy,
		CreatedByName: report.CreatedByName,
		CreatedAt:     report.CreatedAt.UTC().Format(time.RFC3339),
	}
}
