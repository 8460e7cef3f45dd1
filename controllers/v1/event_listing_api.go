package apiv1

import (
	"fmt"
	"time"

	"campus-workflow-backend/controllers"
	listinghandler "campus-workflow-backend/lib/event/listing"
	xlsexport "campus-workflow-backend/lib/export/xls"
	"campus-workflow-backend/middleware"
	apimodels "campus-workflow-backend/models/api"
	eventapimodels "campus-workflow-backend/models/api/event"

	"github.com/gofiber/fiber/v2"
)

type eventListingApiController struct {
	controllers.BaseAPIController
}

func InitEventListingApiRouters(app *fiber.App) {
	controller := eventListingApiController{}
	app.Route("events", func(router fiber.Router) {
		router.Post("pending", controller.listPending)
		router.Post("approved", controller.listApproved)
		router.Post("rejected", controller.listRejected)
		router.Post("closed", controller.listClosed)
		router.Post("approved/xls", controller.exportApprovedXls)
		router.Get("semesters", controller.semesterOptions)
	})
}

// @Summary Pending proposals
// @Tags Event listing
// @Description Proposals awaiting the caller's decision, grouped by semester
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.ProposalFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=eventapimodels.ProposalListResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/events/pending [post]
func (c *eventListingApiController) listPending(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	role := middleware.GetUserRole(ctx)
	category := middleware.GetUserCategory(ctx)
	resp, err := listinghandler.Instance.ListPending(role, category, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "pending list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Approved proposals
// @Tags Event listing
// @Description Open upcoming proposals the caller has approved
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.ProposalFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=eventapimodels.ProposalListResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/events/approved [post]
func (c *eventListingApiController) listApproved(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	role := middleware.GetUserRole(ctx)
	category := middleware.GetUserCategory(ctx)
	resp, err := listinghandler.Instance.ListApproved(role, category, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "approved list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Rejected proposals
// @Tags Event listing
// @Description Proposals the caller has rejected
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.ProposalFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=eventapimodels.ProposalListResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/events/rejected [post]
func (c *eventListingApiController) listRejected(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	role := middleware.GetUserRole(ctx)
	category := middleware.GetUserCategory(ctx)
	resp, err := listinghandler.Instance.ListRejected(role, category, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "rejected list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Closed events
// @Tags Event listing
// @Description Closed events archive, oversight roles only
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.ProposalFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=eventapimodels.ProposalListResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/events/closed [post]
func (c *eventListingApiController) listClosed(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	role := middleware.GetUserRole(ctx)
	resp, err := listinghandler.Instance.ListClosed(role, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "closed list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Semester options
// @Tags Event listing
// @Description Distinct semester/year pairs present in the proposal archive
// @Param   Authorization	header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dbmodels.SemesterOption}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/events/semesters [get]
func (c *eventListingApiController) semesterOptions(ctx *fiber.Ctx) error {
	resp, err := listinghandler.Instance.SemesterOptions()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "semester options failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export approved proposals to XLS
// @Tags Event listing
// @Description Spreadsheet of the caller's approved proposals
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.ProposalFilter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/events/approved/xls [post]
func (c *eventListingApiController) exportApprovedXls(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	role := middleware.GetUserRole(ctx)
	category := middleware.GetUserCategory(ctx)
	resp, err := listinghandler.Instance.ListApproved(role, category, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "approved list failed")
	}
	file, err := xlsexport.Instance.ExportProposalList(resp.Applications)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "xls generation failed")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="events_%v.xlsx"`, time.Now().Format("2006-01-02")))
	return ctx.Status(fiber.StatusOK).Send(file.Bytes())
}

func (c *eventListingApiController) parseFilter(ctx *fiber.Ctx) (eventapimodels.ProposalFilter, error) {
	var filter eventapimodels.ProposalFilter
	if len(ctx.Body()) == 0 {
		return filter, nil
	}
	if err := c.BodyParser(ctx, &filter); err != nil {
		return filter, err
	}
	return filter, nil
}
