package dao

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	surveysCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enquete_surveys_created_total",
		Help: "Surveys created since process start.",
	})

	surveysDeletedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enquete_surveys_deleted_total",
		Help: "Surveys deleted since process start.",
	})

	surveyIDCollisionsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enquete_survey_id_collisions_total",
		Help: "Identifier allocation attempts rejected because the candidate was taken.",
	})

	orphanTablesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "enquete_orphan_tables",
		Help: "Per-survey tables whose survey row is gone, as of the last sweep.",
	})
)
