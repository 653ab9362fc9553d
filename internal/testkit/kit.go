// Package testkit generates deterministic synthetic datasets for tests and
// the demo endpoint.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

// sampleSeed keeps every generated dataset reproducible.
const sampleSeed = 42

// SampleSalesData builds a daily sales table with a seasonal numeric
// signal, correlated product columns, and categorical region/channel
// columns.
func SampleSalesData(days int) *dataset.Dataset {
	rng := rand.New(rand.NewSource(sampleSeed))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	regions := []string{"North", "South", "East", "West"}
	channels := []string{"Online", "Store", "Phone"}

	date := make([]string, days)
	sales := make([]string, days)
	customers := make([]string, days)
	productA := make([]string, days)
	productB := make([]string, days)
	region := make([]string, days)
	channel := make([]string, days)

	for i := 0; i < days; i++ {
		date[i] = start.AddDate(0, 0, i).Format("2006-01-02")

		seasonal := math.Sin(float64(i)*2*math.Pi/365) * 100
		s := rng.NormFloat64()*200 + 1000 + seasonal
		if s < 100 {
			s = 100
		}
		sales[i] = fmt.Sprintf("%.2f", s)
		customers[i] = fmt.Sprintf("%d", 40+rng.Intn(21))
		// Product A tracks sales so correlation findings have something
		// to bite on.
		productA[i] = fmt.Sprintf("%.2f", s*0.3+rng.NormFloat64()*10)
		productB[i] = fmt.Sprintf("%.2f", rng.NormFloat64()*80+400)
		region[i] = regions[rng.Intn(len(regions))]
		channel[i] = channels[rng.Intn(len(channels))]
	}

	ds, err := dataset.New([]dataset.Column{
		{Name: "Date", Values: date},
		{Name: "Sales", Values: sales},
		{Name: "Customers", Values: customers},
		{Name: "Product_A", Values: productA},
		{Name: "Product_B", Values: productB},
		{Name: "Region", Values: region},
		{Name: "Channel", Values: channel},
	})
	if err != nil {
		panic(err) // generator invariant
	}
	return ds
}

// NumericDataset builds a dataset from named float columns, rendering each
// value with full precision. Useful for scenario tests.
func NumericDataset(columns map[string][]float64, order []string) *dataset.Dataset {
	cols := make([]dataset.Column, 0, len(columns))
	for _, name := range order {
		values := columns[name]
		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = fmt.Sprintf("%g", v)
		}
		cols = append(cols, dataset.Column{Name: core.ColumnKey(name), Values: rendered})
	}
	ds, err := dataset.New(cols)
	if err != nil {
		panic(err)
	}
	return ds
}
