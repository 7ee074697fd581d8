// Package download provides the acquisition orchestration: classify
// the locator, resolve its metadata, then run every item through the
// existing-output guard, the transfer driver and the tagging pipeline.
//
// # Manager
//
// The Manager sequences one batch run:
//
//	manager := download.NewManager(settings, prefs, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := manager.Run(ctx, "https://www.youtube.com/playlist?list=...")
//	if err != nil {
//	    log.Fatal(err) // invalid locator or unresolvable metadata
//	}
//	fmt.Printf("%d downloaded, %d skipped, %d errors\n",
//	    summary.Downloaded, summary.Skipped, summary.Errors)
//
// # Failure isolation
//
// Only run-level failures are returned as errors: an invalid locator,
// or metadata that cannot be resolved. Everything that goes wrong with
// an individual item — a failed transfer, an unlocatable output file, a
// tagging error — is converted into a counted outcome or a warning and
// the batch continues with the next item. At completion the summary
// accounts for every item of the resource exactly once.
//
// # Sequencing
//
// Items are processed strictly in source order, one at a time. The
// progress callback fires synchronously from the processing goroutine;
// cancellation is observed between items.
package download
