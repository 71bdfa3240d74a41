// Package s3 provides a source.Source backed by Amazon S3.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := s3.NewFromConfig(cfg)
//
//	src, err := s3.Open(ctx, client, "my-bucket", "capture.bin",
//	    s3.WithThrottle(32<<20),
//	    s3.WithMaxInflight(8),
//	)
//
// # Features
//
//   - Ranged GETs so partial decodes fetch only the bytes they touch
//   - Optional byte-rate throttle and in-flight request cap
//   - Fetch for parallel bulk download when the whole object is needed
//
// Wrap an Object in source.NewCaching to avoid repeated round trips for
// adjacent reads.
package s3
