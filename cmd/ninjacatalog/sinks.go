package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lazuli-inc/ninjacatalog"
)

// attachSinks wires the sinks named by --sink into app. The returned func
// releases them.
func attachSinks(ctx context.Context, app *ninjacatalog.Crawler) (func(), error) {
	var (
		sinks   ninjacatalog.MultiSink
		closers []func()
	)
	closeAll := func() {
		for _, closer := range closers {
			closer()
		}
	}

	for _, name := range sinkNames {
		switch name {
		case "jsonl":
			fileName := fmt.Sprintf("storage/data/%s/%s.jsonl", app.Name, time.Now().Format("2006_01_02_150405"))
			sink, err := ninjacatalog.OpenJSONLSink(fileName)
			if err != nil {
				closeAll()
				return nil, err
			}
			app.Logger.Info("Writing records to %s", fileName)
			sinks = append(sinks, sink)
			closers = append(closers, func() { _ = sink.Close() })
		case "mongo":
			store, err := app.ConnectMongoStore(ctx)
			if err != nil {
				closeAll()
				return nil, err
			}
			sinks = append(sinks, store)
			closers = append(closers, func() { _ = store.Close(context.Background()) })
		case "bigquery":
			sink, err := app.NewBigQuerySink(ctx)
			if err != nil {
				closeAll()
				return nil, err
			}
			sinks = append(sinks, sink)
			closers = append(closers, func() { _ = sink.Close() })
		case "datastore":
			sink, err := app.NewDatastoreSink(ctx)
			if err != nil {
				closeAll()
				return nil, err
			}
			sinks = append(sinks, sink)
			closers = append(closers, func() { _ = sink.Close() })
		case "api":
			sink, err := app.NewApiSink()
			if err != nil {
				closeAll()
				return nil, err
			}
			sinks = append(sinks, sink)
		default:
			closeAll()
			return nil, fmt.Errorf("unknown sink %q", name)
		}
	}

	if len(sinks) == 1 {
		app.SetSink(sinks[0])
	} else {
		app.SetSink(sinks)
	}
	return closeAll, nil
}
