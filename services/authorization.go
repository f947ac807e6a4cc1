package services

import (
	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/models"
	"civic-jharkhand-be/repository"
)

// AuthorizeStatusUpdate lets admins update any report and workers update
// reports in their assigned category.
func AuthorizeStatusUpdate(requester *models.User, report *models.Report) error {
	if requester == nil {
		return apperrors.Unauthorized("user not authenticated", nil)
	}
	if requester.Role != models.RoleAdmin && requester.Role != models.RoleWorker {
		return apperrors.Forbidden("only admins and workers can update report status")
	}
	if !requester.CanActOn(report.Category) {
		return apperrors.Forbidden("report category does not match your assigned category")
	}
	return nil
}

// ScopeFor maps a role to the reports it may list: citizens their own,
// workers their category, admins everything.
func ScopeFor(requester *models.User) (repository.ReportFilter, error) {
	switch requester.Role {
	case models.RoleAdmin:
		return repository.ReportFilter{}, nil
	case models.RoleWorker:
		if requester.AssignedCategory == nil {
			return repository.ReportFilter{}, apperrors.Forbidden("worker has no assigned category")
		}
		category := *requester.AssignedCategory
		return repository.ReportFilter{Category: &category}, nil
	case models.RoleCitizen:
		id := requester.ID
		return repository.ReportFilter{SubmittedBy: &id}, nil
	}
	return repository.ReportFilter{}, apperrors.Forbidden("unknown role")
}

func CanView(requester *models.User, report *models.Report) bool {
	switch requester.Role {
	case models.RoleAdmin, models.RoleWorker:
		return requester.CanActOn(report.Category)
	case models.RoleCitizen:
		return report.SubmittedBy.ID == requester.ID
	}
	return false
}
