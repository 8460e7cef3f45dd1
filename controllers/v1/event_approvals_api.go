package apiv1

import (
	"campus-workflow-backend/controllers"
	approvalhandler "campus-workflow-backend/lib/event/approval"
	lifecyclehandler "campus-workflow-backend/lib/event/lifecycle"
	"campus-workflow-backend/middleware"
	apimodels "campus-workflow-backend/models/api"
	eventapimodels "campus-workflow-backend/models/api/event"

	"github.com/gofiber/fiber/v2"
)

type eventApprovalsApiController struct {
	controllers.BaseAPIController
}

func InitEventApprovalsApiRouters(app *fiber.App) {
	controller := eventApprovalsApiController{}
	app.Route("event/:id", func(router fiber.Router) {
		router.Post("decision", controller.decide)
		router.Post("query", controller.raiseQuery)
		router.Post("query/:query_id/reply", controller.replyToQuery)
		router.Post("post_approval_query", controller.raisePostApprovalQuery)
		router.Post("close", controller.close)
	})
}

// @Summary Record approval decision
// @Tags Event approvals
// @Description Approve or reject the caller's step in the approval chain
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.ApprovalDecisionData	true	"request body"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/decision [post]
func (c *eventApprovalsApiController) decide(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload eventapimodels.ApprovalDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	role := middleware.GetUserRole(ctx)
	err = approvalhandler.Instance.Advance(id, role, payload.Decision, payload.Comment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "approval decision failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Raise query
// @Tags Event approvals
// @Description Pause the caller's decision with a question to the proposal owner
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.QueryData	true	"request body"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=eventapimodels.QueryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/query [post]
func (c *eventApprovalsApiController) raiseQuery(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload eventapimodels.QueryData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	role := middleware.GetUserRole(ctx)
	resp, err := approvalhandler.Instance.RaiseQuery(id, role, payload.Text)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "query creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Reply to query
// @Tags Event approvals
// @Description Answer a pending query; re-opens the asker's decision for pre-approval queries
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.QueryReplyData	true	"request body"
// @Param   id	path	string	true	"rec ID"
// @Param   query_id	path	string	true	"query ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/query/{query_id}/reply [post]
func (c *eventApprovalsApiController) replyToQuery(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	queryID, err := c.GetIDByKey(ctx, "query_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload eventapimodels.QueryReplyData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	userID := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)
	err = approvalhandler.Instance.ReplyToQuery(id, queryID, userID, role, payload.Response)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "query reply failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Raise post-approval query
// @Tags Event approvals
// @Description Append an oversight question to a fully-approved proposal
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.QueryData	true	"request body"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=eventapimodels.QueryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/post_approval_query [post]
func (c *eventApprovalsApiController) raisePostApprovalQuery(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload eventapimodels.QueryData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	role := middleware.GetUserRole(ctx)
	resp, err := approvalhandler.Instance.RaisePostApprovalQuery(id, role, payload.Text)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "post-approval query creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Close event
// @Tags Event approvals
// @Description Close a fully-approved event once the closing window has opened
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.CloseData	false	"request body"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/close [post]
func (c *eventApprovalsApiController) close(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload eventapimodels.CloseData
	if len(ctx.Body()) > 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}

	userID := middleware.GetUserID(ctx)
	err = lifecyclehandler.Instance.Close(id, userID, payload.ClosedBy)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "event closing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
