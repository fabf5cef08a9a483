// Package persistor is the composition root of the entity persistence
// subsystem.
//
// It stores and retrieves domain entities through interchangeable storage
// strategies, each owning one resource directory:
//
//   - binary: gob streams in "{id}.pickle" files; no type registration needed.
//   - text: human-readable "{id}.dat" records whose first line names the
//     registered type ("__class__:<tag>").
//
// A Repository sits on top of a Context and optionally brackets every
// operation with audit notes and records failures in a trace log.
//
// Usage:
//
//	persistor.Register("Signal", func() persistor.Entity { return &Signal{} })
//
//	ctx, err := persistor.NewContext("text", map[string]string{"resource": "./data"})
//	if err != nil {
//		return err
//	}
//	repo := persistor.NewRepository(ctx,
//		persistor.WithAuditor(persistor.NewFileAuditor("")),
//		persistor.WithTracer(persistor.NewFileTracer("")),
//	)
//
//	err = repo.Save(signal)
//	got, err := repo.Get("1000", nil)
//
// Get returns (nil, nil) when no record exists for the id.
package persistor
