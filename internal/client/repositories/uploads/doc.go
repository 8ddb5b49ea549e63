// Package uploads persists the local history of photos sent to the
// Photobooth backend.
//
// The history plays the role of the rendered photo list: successful uploads
// are appended, deleting a photo marks its row deleted, and the CLI prints the
// live rows with the history command.
//
//	repo := uploads.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, rec)
//	recent, _ := repo.List(ctx, 20)
//	_ = repo.MarkDeleted(ctx, rec.PhotoID)
package uploads
