// Package tasks holds the asynq task types and handlers for background work.
package tasks

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/trading"
)

const TypeAutofillDistribute = "autofill:distribute"

func NewAutofillDistributeTask() *asynq.Task {
	return asynq.NewTask(TypeAutofillDistribute, nil, asynq.Queue("autofill"))
}

type Handler struct {
	App *agritradeapi.AppWorker
}

// HandleAutofillDistribute runs the monthly pool split. An empty pool or a
// lack of eligible users is a normal outcome for a scheduled run, not a task
// failure worth retrying.
func (h *Handler) HandleAutofillDistribute(ctx context.Context, t *asynq.Task) error {
	result, err := trading.DistributeAutofill(h.App.Db)
	if err != nil {
		if reject, ok := err.(*trading.RejectError); ok && reject.Kind == trading.RejectEligibility {
			fmt.Println("[[Autofill]] skipped:", reject.Message)
			return nil
		}
		return err
	}
	fmt.Printf("[[Autofill]] distributed $%.2f to %d users\n", result.Amount, result.Recipients)
	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`Monthly Autofill Distribution
Amount: %s
Recipients: %d
[Control Panel](%s/autofill)`,
		agritradeapi.EscapeMarkdownV2(fmt.Sprintf("%.2f", result.Amount)),
		result.Recipients,
		cpUrl,
	)
	agritradeapi.QueueTelegramMessage(msg, "finance")
	return nil
}

// RunWorker consumes the autofill queue and schedules the monthly trigger.
func RunWorker(app *agritradeapi.AppWorker) error {
	handler := &Handler{App: app}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAutofillDistribute, handler.HandleAutofillDistribute)

	redisOpt := asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register("@monthly", NewAutofillDistributeTask()); err != nil {
		return err
	}
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Shutdown()

	return app.Aqs.Run(mux)
}
