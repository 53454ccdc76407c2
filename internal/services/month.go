package services

import (
	"time"

	"github.com/GregMSThompson/transactions-backend/pkg/helpers"
)

// reportYear is the only calendar year the dataset is reported over.
const reportYear = 2022

// monthWindow returns [start, end) in UTC for a 1-based month of reportYear.
// December rolls over to January of the following year.
func monthWindow(month int) (time.Time, time.Time) {
	start := time.Date(reportYear, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

type priceBucket struct {
	label string
	min   float64
	max   *float64 // exclusive; nil is unbounded
}

// priceBuckets counts min <= price < max. The bounds leave one-unit gaps
// between buckets ([100,101), [200,201), ...); prices there match no bucket.
var priceBuckets = []priceBucket{
	{label: "0-100", min: 0, max: helpers.Ptr(100.0)},
	{label: "101-200", min: 101, max: helpers.Ptr(200.0)},
	{label: "201-300", min: 201, max: helpers.Ptr(300.0)},
	{label: "301-400", min: 301, max: helpers.Ptr(400.0)},
	{label: "401-500", min: 401, max: helpers.Ptr(500.0)},
	{label: "501-600", min: 501, max: helpers.Ptr(600.0)},
	{label: "601-700", min: 601, max: helpers.Ptr(700.0)},
	{label: "701-800", min: 701, max: helpers.Ptr(800.0)},
	{label: "801-900", min: 801, max: helpers.Ptr(900.0)},
	{label: "901-above", min: 901},
}
