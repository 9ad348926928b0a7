package background

import (
	"testing"
	"time"

	"salonstock/internal/analytics"
	"salonstock/internal/jobs"
	"salonstock/testhelpers"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobs() (*jobs.InventoryAlertService, *jobs.ReconciliationJob) {
	store := testhelpers.NewStore()
	alerts := jobs.NewInventoryAlertService(store.Products(), zerolog.Nop())
	reconcile := jobs.NewReconciliationJob(store.Products(), analytics.NewService(store.Products(), store.Transactions(), zerolog.Nop()), zerolog.Nop())
	return alerts, reconcile
}

func TestNewJobScheduler_RegistersJobs(t *testing.T) {
	alerts, reconcile := newJobs()

	scheduler, err := NewJobScheduler(alerts, reconcile, Intervals{LowStock: time.Hour, Reconcile: 6 * time.Hour}, zerolog.Nop())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"low-stock-alerts", "ledger-reconciliation"}, scheduler.Jobs())

	scheduler.Start()
	assert.NoError(t, scheduler.Stop())
}

func TestNewJobScheduler_ZeroIntervalDisablesJob(t *testing.T) {
	alerts, reconcile := newJobs()

	scheduler, err := NewJobScheduler(alerts, reconcile, Intervals{LowStock: time.Minute}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"low-stock-alerts"}, scheduler.Jobs())

	scheduler.Start()
	assert.NoError(t, scheduler.Stop())
}
