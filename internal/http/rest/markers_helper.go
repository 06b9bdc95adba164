package rest

import (
	"context"
	"encoding/json"
	"log"

	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/values"
	"github.com/relieflk/floodmap/util/websockets"
)

func (api *API) SubmitReportHelper(ctx context.Context, req model.CreateReportRequest) (model.Report, string, string, error) {
	if req.Severity == "" {
		req.Severity = model.SeverityLow
	}

	if err := util.ValidateStruct(req); err != nil {
		return model.Report{}, values.BadRequestBody, "validation failed", err
	}

	report, err := api.CreateReportRepo(ctx, req)
	if err != nil {
		return model.Report{}, values.Error, "failed to create report", err
	}

	return report, values.Created, "Report submitted for review", nil
}

func (api *API) PendingReportsHelper(ctx context.Context) ([]model.Report, string, string, error) {
	role, err := util.GetRoleFromContext(ctx)
	if err != nil {
		return nil, values.NotAuthorised, "unable to get role from context", err
	}

	var reports []model.Report
	if role == values.RoleAdmin {
		reports, err = api.GetReportsByStatusRepo(ctx, model.StatusPending)
	} else {
		username, nameErr := util.GetUsernameFromContext(ctx)
		if nameErr != nil {
			return nil, values.NotAuthorised, "unable to get username from context", nameErr
		}
		reports, err = api.GetPendingReportsByUserRepo(ctx, username)
	}
	if err != nil {
		return nil, values.Error, "failed to get pending reports", err
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return reports, values.Success, "Pending reports retrieved successfully", nil
}

// ApproveReportHelper moves a pending report to approved. Approving a
// report that is already approved is a no-op returning the current
// state; a rejected report cannot be approved again.
func (api *API) ApproveReportHelper(ctx context.Context, id int64) (model.Report, string, string, error) {
	report, err := api.TransitionReportRepo(ctx, id, model.StatusApproved)
	switch err {
	case nil:
		go api.broadcastReportEvent(websockets.EventReportApproved, report)
		return report, values.Success, "Report approved", nil
	case ErrAlreadyTransitioned:
		if report.Status == model.StatusApproved {
			return report, values.Success, "Report already approved", nil
		}
		return model.Report{}, values.Conflict, "report has been rejected", err
	case ErrReportNotFound:
		return model.Report{}, values.NotFound, "report not found", err
	default:
		return model.Report{}, values.Error, "failed to approve report", err
	}
}

// RejectReportHelper marks a pending report rejected. The row is kept
// for the submitter's feedback view, never deleted here.
func (api *API) RejectReportHelper(ctx context.Context, id int64) (model.Report, string, string, error) {
	report, err := api.TransitionReportRepo(ctx, id, model.StatusRejected)
	switch err {
	case nil:
		return report, values.Success, "Report rejected", nil
	case ErrAlreadyTransitioned:
		if report.Status == model.StatusRejected {
			return report, values.Success, "Report already rejected", nil
		}
		return model.Report{}, values.Conflict, "report has been approved", err
	case ErrReportNotFound:
		return model.Report{}, values.NotFound, "report not found", err
	default:
		return model.Report{}, values.Error, "failed to reject report", err
	}
}

func (api *API) broadcastReportEvent(event string, report model.Report) {
	body, err := json.Marshal(report)
	if err != nil {
		log.Println("error marshalling report event", err)
		return
	}
	var payload json.RawMessage = body
	api.Deps.Hub.BroadcastEvent(event, payload)
}
