package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/filestore"
	"github.com/programme-lv/judger/internal/gatherer/natsgath"
	"github.com/programme-lv/judger/internal/gatherer/sqsgath"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/judge"
	"github.com/programme-lv/judger/internal/metrics"
	"github.com/programme-lv/judger/internal/server"
	"github.com/programme-lv/judger/internal/tester"
	"github.com/programme-lv/judger/internal/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "bind address, overrides [server] bind_address"},
			&cli.StringFlag{Name: "port", Usage: "bind port, overrides [server] bind_port"},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if bind := cmd.String("bind"); bind != "" {
		cfg.Server.BindAddress = bind
	}
	if port := cmd.String("port"); port != "" {
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid port %q", port)
		}
		cfg.Server.BindPort = uint16(p)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}
	for _, f := range cat.Check() {
		if f.Health != catalog.HealthOK {
			a.logger.Warn("catalog check", "unit", f.Unit, "message", f.Message)
		}
	}

	ws, err := workspace.New(a.env.WorkspaceRoot)
	if err != nil {
		return err
	}
	registry := jobs.NewRegistry()

	files := filestore.New()
	answers := make([]string, 0)
	for _, p := range cat.Problems() {
		for _, c := range p.Cases {
			answers = append(answers, c.AnswerFile)
		}
	}
	if err := files.Warm(ctx, answers); err != nil {
		a.logger.Warn("failed to preload answer files", "error", err)
	}
	a.logger.Info("preloaded answer files", "count", files.Len())

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg, registry.Len)

	sinks := []judge.SinkFactory{
		func(*jobs.Job, string) tester.ResultGatherer { return m.Gatherer() },
	}

	if a.env.NatsURL != "" {
		nc, err := natsgath.Connect(a.env.NatsURL)
		if err != nil {
			return err
		}
		defer nc.Drain()
		a.logger.Info("streaming job events to nats", "url", a.env.NatsURL, "subject", a.env.NatsSubject+".<job_id>")
		sinks = append(sinks, func(job *jobs.Job, runID string) tester.ResultGatherer {
			return natsgath.New(nc, a.env.NatsSubject, job.ID, runID, a.logger)
		})
	}

	if a.env.SqsQueueURL != "" {
		client, err := sqsgath.NewClient(ctx, a.env.AwsRegion)
		if err != nil {
			return err
		}
		a.logger.Info("reporting finished jobs to sqs", "queue", a.env.SqsQueueURL)
		sinks = append(sinks, func(job *jobs.Job, runID string) tester.ResultGatherer {
			return sqsgath.New(client, a.env.SqsQueueURL, job, runID, a.logger)
		})
	}

	svc := judge.NewService(cat, registry, tester.NewTester(ws, files, a.logger), a.logger, sinks...)
	router := server.NewRouter(svc, m, promReg, a.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx, cfg.Addr(), router, a.logger)
}
