package apiv1

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"campus-workflow-backend/controllers"
	"campus-workflow-backend/db"
	eventhandler "campus-workflow-backend/lib/event"
	eventstore "campus-workflow-backend/lib/event/store"
	pdfexport "campus-workflow-backend/lib/export/pdf"
	filestorage "campus-workflow-backend/lib/file-storage"
	"campus-workflow-backend/middleware"
	apimodels "campus-workflow-backend/models/api"
	eventapimodels "campus-workflow-backend/models/api/event"

	"github.com/gofiber/fiber/v2"
)

type eventApiController struct {
	controllers.BaseAPIController
}

func InitEventApiRouters(app *fiber.App) {
	controller := eventApiController{}
	app.Route("event", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("my", controller.listMine)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Get("edit_history", controller.editHistory)
			idRoute.Get("pdf", controller.exportPdf)
			idRoute.Post("attachments", controller.uploadAttachment)
			idRoute.Get("attachments", controller.listAttachments)
			idRoute.Get("attachments/download", controller.downloadAttachment)
		})
	})
}

// @Summary Create event proposal
// @Tags Event proposals
// @Description Create event proposal
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.EventProposalCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event [post]
func (c *eventApiController) create(ctx *fiber.Ctx) error {
	var payload eventapimodels.EventProposalCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if !middleware.GetUserRole(ctx).IsOwnerRole() {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("only club secretaries may submit proposals"))
	}
	userID := middleware.GetUserID(ctx)
	id, err := eventhandler.Instance.Create(userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Get event proposal
// @Tags Event proposals
// @Description Get event proposal by ID
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=eventapimodels.EventProposalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id} [get]
func (c *eventApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Edit event proposal
// @Tags Event proposals
// @Description Edit event proposal; re-opens non-approved, non-queried steps
// @Param   Authorization	header	string	true	"Authorization token"
// @Param	body body	 eventapimodels.EventProposalEditData	true	"request body"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id} [put]
func (c *eventApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload eventapimodels.EventProposalEditData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	userID := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)
	err = eventhandler.Instance.Edit(id, userID, role, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal edit failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary My event proposals
// @Tags Event proposals
// @Description List proposals created by the caller
// @Param   Authorization	header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]eventapimodels.EventProposalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/my [get]
func (c *eventApiController) listMine(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	resp, err := eventhandler.Instance.ListByOwner(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Edit history
// @Tags Event proposals
// @Description Audit log of proposal edits
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]eventapimodels.EditRecordView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/edit_history [get]
func (c *eventApiController) editHistory(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.EditHistory(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "edit history lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Proposal PDF
// @Tags Event proposals
// @Description Printable proposal summary
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/pdf [get]
func (c *eventApiController) exportPdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := eventstore.NewInstance(db.DB).GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal lookup failed")
	}
	if rec == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("event proposal not found"))
	}
	file, err := pdfexport.GenerateProposalSummary(*rec)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "pdf generation failed")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="proposal.pdf"`)
	return ctx.Status(fiber.StatusOK).Send(file)
}

// @Summary Upload attachment
// @Tags Event proposals
// @Description Attach a file (poster, budget sheet) to the proposal
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/attachments [post]
func (c *eventApiController) uploadAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if filestorage.Instance == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("attachments are disabled"))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment read failed")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment read failed")
	}
	objectKey, err := filestorage.Instance.UploadAttachment(ctx.Context(), id, fileHeader.Filename, data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment upload failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(objectKey))
}

// @Summary List attachments
// @Tags Event proposals
// @Description List proposal attachment keys
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/attachments [get]
func (c *eventApiController) listAttachments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if filestorage.Instance == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("attachments are disabled"))
	}
	keys, err := filestorage.Instance.ListAttachments(ctx.Context(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(keys))
}

// @Summary Download attachment
// @Tags Event proposals
// @Description Download one attachment by its object key
// @Param   Authorization	header	string	true	"Authorization token"
// @Param   id	path	string	true	"rec ID"
// @Param   key	query	string	true	"attachment object key"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/attachments/download [get]
func (c *eventApiController) downloadAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if filestorage.Instance == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("attachments are disabled"))
	}
	objectKey := ctx.Query("key")
	if !strings.HasPrefix(objectKey, id+"/") {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("attachment key does not belong to this proposal"))
	}
	data, err := filestorage.Instance.GetAttachment(ctx.Context(), objectKey)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment download failed")
	}
	ctx.Set(fiber.HeaderContentType, "application/octet-stream")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(objectKey)))
	return ctx.Status(fiber.StatusOK).Send(data)
}
