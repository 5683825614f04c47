package helper

import (
	"log"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/model"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

var statsScheduler gocron.Scheduler

// ReconcileCustomerStats recomputes every customer's aggregate counters from
// the order table. The counters are maintained incrementally on transitions;
// this job is the nightly backstop that repairs any drift.
func ReconcileCustomerStats(db *gorm.DB) {
	log.Println("[CRON] ReconcileCustomerStats triggered")

	var customers []model.Customer
	if err := db.Find(&customers).Error; err != nil {
		log.Printf("stats reconcile: could not load customers: %v", err)
		return
	}

	for _, customer := range customers {
		var total, completed int64
		var spent float64

		if err := db.Model(&model.Order{}).Where("user_id = ?", customer.UserID).Count(&total).Error; err != nil {
			log.Printf("stats reconcile: count orders for user %d: %v", customer.UserID, err)
			continue
		}
		if err := db.Model(&model.Order{}).
			Where("user_id = ? AND status IN ?", customer.UserID, []string{constants.ORDER_COMPLETED, constants.ORDER_PICKED_UP}).
			Count(&completed).Error; err != nil {
			log.Printf("stats reconcile: count completed for user %d: %v", customer.UserID, err)
			continue
		}
		row := db.Model(&model.Payment{}).
			Where("user_id = ? AND status = ?", customer.UserID, constants.PAYMENT_COMPLETED).
			Select("COALESCE(SUM(amount), 0)").Row()
		if err := row.Scan(&spent); err != nil {
			log.Printf("stats reconcile: sum payments for user %d: %v", customer.UserID, err)
			continue
		}

		updates := map[string]interface{}{
			"total_orders":     total,
			"completed_orders": completed,
			"active_orders":    total - completed,
			"total_spent":      spent,
		}
		if err := db.Model(&model.Customer{}).Where("id = ?", customer.ID).Updates(updates).Error; err != nil {
			log.Printf("stats reconcile: update customer %d: %v", customer.ID, err)
		}
	}
}

func StartStatsScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	statsScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(3, 0, 0),
			),
		),
		gocron.NewTask(func() { ReconcileCustomerStats(database.DB) }),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Customer stats scheduler started (03:00)")
}

func StopStatsScheduler() {
	if statsScheduler != nil {
		_ = statsScheduler.Shutdown()
	}
}
