package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBatch(t *testing.T) {
	ok := batchTotal.WithLabelValues("test", "list_single", "ok")
	failed := batchTotal.WithLabelValues("test", "list_single", "error")
	items := itemsTotal.WithLabelValues("test", "list_single")
	okBefore, failedBefore, itemsBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed), testutil.ToFloat64(items)

	ObserveBatch("test", "list_single", 3, 1, time.Millisecond, nil)
	ObserveBatch("test", "list_single", 5, 2, time.Millisecond, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, itemsBefore+3, testutil.ToFloat64(items), "failed calls add no items")
}
