package initializers

import (
	"context"

	"campus-workflow-backend/config"
	"campus-workflow-backend/fiberlog"
	eventhandler "campus-workflow-backend/lib/event"
	approvalhandler "campus-workflow-backend/lib/event/approval"
	lifecyclehandler "campus-workflow-backend/lib/event/lifecycle"
	listinghandler "campus-workflow-backend/lib/event/listing"
	xlsexport "campus-workflow-backend/lib/export/xls"
	"campus-workflow-backend/lib/notify"
	reminderworker "campus-workflow-backend/lib/reminder-worker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	notify.NewHandler()
	eventhandler.NewHandler()
	approvalhandler.NewHandler()
	lifecyclehandler.NewHandler()
	listinghandler.NewHandler()
	xlsexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// reminds the role a proposal has been waiting on for too long
	reminderworker.StartWorker(ctx, config.Conf.Reminder.PendingDays)
}
