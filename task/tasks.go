package task

import (
	"context"
	"log/slog"

	"github.com/angas/rceprice/config"
	"github.com/angas/rceprice/database"
	"github.com/angas/rceprice/timeline"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	TimelineTask    func()
	PublishTask     func() // nil when MQTT is disabled
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	manager *timeline.Manager,
	publisher PricePublisher,
	cnfg *config.AppConfig,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	t := &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		TimelineTask:    NewTimelineTask(logger.With(slog.String("task", "timeline")), manager),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg.Logging.GetDbMaxEntries()),
	}
	if publisher != nil {
		t.PublishTask = NewPublishTask(logger.With(slog.String("task", "publish")), manager, publisher)
	}
	return t
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.cnfg.Timeline.GetRunAt(), t.TimelineTask)
	if err != nil {
		panic(err)
	}
	if t.PublishTask != nil {
		_, err = t.cron.AddFunc(t.cnfg.Mqtt.GetPublishAt(), t.PublishTask)
		if err != nil {
			panic(err)
		}
	}
	_, err = t.cron.AddFunc("30 2 * * *", t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()

	// Don't wait for the first tick to have prices.
	go t.TimelineTask()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
