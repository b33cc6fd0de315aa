package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moyoez/editor-bridge/api"
	"github.com/moyoez/editor-bridge/assembler"
	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/notify"
	"github.com/moyoez/editor-bridge/pipeline"
	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/transfer"
	"github.com/moyoez/editor-bridge/types"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlagOverrides(&appCfg, cfg)
	if err := tool.ValidateConfig(&appCfg); err != nil {
		tool.DefaultLogger.Fatalf("invalid config: %v", err)
	}
	tool.CurrentConfig = appCfg

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	if cfg.SkipNotify {
		notify.SetUseNotify(false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PushImage != "" || cfg.PushText != "" {
		if err := runProducer(ctx, cfg, appCfg); err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
		return
	}

	hub := notify.NewHub()
	registry := editor.NewRegistry(editor.Options{
		Processor:     pipeline.New(appCfg.MaxImageHeight, appCfg.JpegQuality).WithMaxPixels(appCfg.MaxImagePixels),
		Boundary:      assembler.BoundaryFor(appCfg.Completion),
		SessionTTL:    tool.SessionTTL(&appCfg),
		ChunkSize:     appCfg.ChunkSize,
		TextChunkSize: appCfg.TextChunkSize,
		MaxUploadSize: appCfg.MaxUploadSize,
	}, notify.NewDispatcher(hub, appCfg.NotifySocket))

	apiServer := api.NewServer(appCfg, registry, hub)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	<-ctx.Done()
	tool.DefaultLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		tool.DefaultLogger.Errorf("Shutdown failed: %v", err)
	}
}

// runProducer pushes an image or a document to a running bridge.
func runProducer(ctx context.Context, cfg types.Config, appCfg types.AppConfig) error {
	var transport *transfer.HTTPTransport
	if cfg.Editor != "" {
		if !tool.IsValidID(cfg.Editor) {
			return fmt.Errorf("invalid editor id %q", cfg.Editor)
		}
		transport = transfer.NewHTTPTransport(cfg.Target, cfg.Editor)
	} else {
		var err error
		transport, err = transfer.Setup(ctx, cfg.Target, types.EditorSetupRequest{})
		if err != nil {
			return fmt.Errorf("failed to set up editor: %w", err)
		}
		fmt.Println(transport.EditorID())
	}

	if cfg.PushImage != "" {
		ref, err := transfer.UploadFile(ctx, transport, cfg.PushImage, appCfg.ChunkSize)
		if err != nil {
			return err
		}
		fmt.Println(ref)
	}

	if cfg.PushText != "" {
		doc, err := os.ReadFile(cfg.PushText)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", cfg.PushText, err)
		}
		events, err := transfer.Subscribe(ctx, cfg.Target, transport.EditorID())
		if err != nil {
			tool.DefaultLogger.Warnf("[Transfer] no notify subscription: %v", err)
		}
		if err := transfer.SyncText(ctx, transport, string(doc), appCfg.TextChunkSize); err != nil {
			return err
		}
		if events != nil {
			awaitValueChanged(ctx, events)
			events.Close()
		}
	}
	return nil
}

func awaitValueChanged(ctx context.Context, events *transfer.Events) {
	timeout := time.After(5 * time.Second)
	for {
		select {
		case n, ok := <-events.C:
			if !ok {
				return
			}
			if n.Type == types.NotifyTypeValueChanged {
				tool.DefaultLogger.Infof("[Transfer] editor %s accepted %v bytes", n.EditorId, n.Data["length"])
				return
			}
		case <-timeout:
			tool.DefaultLogger.Warn("[Transfer] no value_changed notification received")
			return
		case <-ctx.Done():
			return
		}
	}
}
