package domain

// Blob names written by the pipeline into the artifact bucket.
const (
	BlobFeatures              = "X.parquet"
	BlobObserved              = "y.parquet"
	BlobPredictions           = "predictions.parquet"
	BlobMetricsMonitoring     = "metrics_monitoring.parquet"
	BlobObservedMonitoring    = "y_monitoring.parquet"
	BlobPredictionsMonitoring = "predictions_monitoring.parquet"
)

// ArtifactRef points at one stored artifact.
type ArtifactRef struct {
	Bucket string
	Blob   string
}

func NewArtifactRef(bucket, blob string) ArtifactRef {
	return ArtifactRef{Bucket: bucket, Blob: blob}
}

func (r ArtifactRef) String() string {
	if r.Bucket == "" {
		return r.Blob
	}
	return r.Bucket + "/" + r.Blob
}
