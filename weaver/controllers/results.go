package controllers

import (
	"context"

	"weaver/weaver/apperrors"
	"weaver/weaver/sources/psql/dao"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/types"
)

// ResultsController is the public read path: it serves only the data
// portion of a deployed record, never metadata or config.
type ResultsController struct {
	deployDAO *dao.DeploymentDAO
}

func NewResultsController(deployDAO *dao.DeploymentDAO) *ResultsController {
	return &ResultsController{deployDAO: deployDAO}
}

func (c *ResultsController) GetResult(ctx context.Context, userID, name string) (types.ExtractedRecord, error) {
	defer logging.LogDuration(ctx, "get_result")()

	if userID == "" || name == "" {
		return nil, apperrors.New(apperrors.Validation, "Invalid chatId or chatname")
	}

	dep, err := c.deployDAO.GetByKey(ctx, dao.StorageKey(userID, name))
	if err != nil {
		return nil, err
	}

	record, err := DecodeRecord(dep.Payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Internal server error", err)
	}
	return record.Data, nil
}
