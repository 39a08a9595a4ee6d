package storage

import "tickscope/internal/model"

// Storage defines a sink for reconstructed curve rows.
type Storage interface {
	PutCurveBatch(points []model.CurvePoint) error
}
