// Package httpclient provides a typed Go client for the catalog action API,
// and a fetcher for reading byte ranges of remote files.
//
// Create a client with:
//
//	client, err := httpclient.New("https://data.example.com")
//	if err != nil {
//	   panic(err)
//	}
//
// Then use the client to read records:
//
//	// Return a record
//	record, err := client.WithToken(token, "").PackageShow(ctx, "my-dataset")
package httpclient
