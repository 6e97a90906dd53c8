package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var todoCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "todos_stored",
	Help: "Number of todos currently held in memory",
})
