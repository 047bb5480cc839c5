package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janiluuk/defora/adapters/audio"
	"github.com/janiluuk/defora/adapters/mediator"
	"github.com/janiluuk/defora/adapters/queue"
	"github.com/janiluuk/defora/domain"
	"github.com/janiluuk/defora/internal/api"
	"github.com/janiluuk/defora/internal/websocket"
	"github.com/janiluuk/defora/usecase"
)

var version = "0.1.0"

var logger *zap.Logger

func main() {
	// .env is optional; real config comes from flags and the environment.
	_ = godotenv.Load()

	logger, _ = zap.NewProduction()
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

var rootCmd = &cobra.Command{
	Use:   "defora",
	Short: "Real-time parameter control for a Deforum mediator",
	Long: `Defora drives a live generative-visual engine through its mediator:
read and write parameters, map control messages to protocol-correct
writes, and modulate parameters from audio at animation frame rate.`,
	Version: version,
}

// --- mediator: mock server ---------------------------------------------------

var mediatorCmd = &cobra.Command{
	Use:   "mediator",
	Short: "Run an in-memory mock mediator server",
	Long: `Run a tiny in-memory mediator speaking the msgpack triplet protocol,
for demos and round-trip tests. No auth, persistence, or schema checks.

Example:
  defora mediator --port 8766`,
	RunE: runMediator,
}

func runMediator(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetString("port")

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := websocket.NewServer(websocket.NewState(), logger)
	api.InitRoutes(e, server, logger)

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()
	logger.Info("mediator mock listening", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("mediator mock exited")
	return nil
}

// --- modulate: audio-reactive schedules --------------------------------------

var modulateCmd = &cobra.Command{
	Use:   "modulate",
	Short: "Build parameter schedules from audio, offline or live",
	Long: `Analyze an audio file into frequency-band envelopes and map them onto
mediator parameters, writing a schedule JSON and/or streaming the values
live at the target frame rate.

Examples:
  defora modulate --audio song.wav --fps 24 --output schedule.json
  defora modulate --audio song.wav --fps 24 --live \
    --mapping '[{"param":"translation_x","freq_min":20,"freq_max":200,"out_min":-1,"out_max":1}]'`,
	RunE: runModulate,
}

func runModulate(cmd *cobra.Command, args []string) error {
	audioPath, _ := cmd.Flags().GetString("audio")
	fps, _ := cmd.Flags().GetInt("fps")
	mappingArg, _ := cmd.Flags().GetString("mapping")
	output, _ := cmd.Flags().GetString("output")
	live, _ := cmd.Flags().GetBool("live")
	host, _ := cmd.Flags().GetString("mediator-host")
	port, _ := cmd.Flags().GetString("mediator-port")

	if fps <= 0 {
		return fmt.Errorf("fps must be greater than zero, got %d", fps)
	}
	mappings, err := domain.ParseBandMappings(mappingArg)
	if err != nil {
		return err
	}
	samples, sampleRate, err := audio.LoadMono(audioPath)
	if err != nil {
		return err
	}

	service := usecase.NewModulationService(logger)
	schedule, err := service.ComputeModulations(samples, sampleRate, fps, mappings)
	if err != nil {
		return err
	}

	if output != "" {
		if err := schedule.Save(output); err != nil {
			return err
		}
		fmt.Printf("Saved schedule to %s\n", output)
	}
	if live {
		fmt.Printf("Streaming live to mediator %s:%s at %d fps...\n", host, port, fps)
		client := mediator.NewClient(mediator.ClientConfig{Host: host, Port: port}, logger)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := service.Stream(ctx, schedule, fps, client); err != nil {
			return err
		}
	}
	if output == "" && !live {
		data, err := json.MarshalIndent(schedule, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

// --- bridge: queue consumer --------------------------------------------------

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Consume control messages from RabbitMQ into the mediator",
	Long: `Listen on a queue for {"controlType": ..., "payload": {...}} messages
and forward them through the control mapping to the mediator.

Example:
  defora bridge --mq-url amqp://localhost --queue controls`,
	RunE: runBridge,
}

func runBridge(cmd *cobra.Command, args []string) error {
	mqURL, _ := cmd.Flags().GetString("mq-url")
	mqQueue, _ := cmd.Flags().GetString("queue")
	host, _ := cmd.Flags().GetString("mediator-host")
	port, _ := cmd.Flags().GetString("mediator-port")

	client := mediator.NewClient(mediator.ClientConfig{Host: host, Port: port}, logger)
	control := usecase.NewControlService(client, logger)
	bridge := queue.NewBridge(queue.BridgeConfig{URL: mqURL, Queue: mqQueue}, control, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// --- status: parameter snapshot ----------------------------------------------

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch mediator parameters as JSON",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("mediator-host")
	port, _ := cmd.Flags().GetString("mediator-port")
	keysArg, _ := cmd.Flags().GetString("keys")

	var keys []string
	for _, key := range strings.Split(keysArg, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}

	client := mediator.NewClient(mediator.ClientConfig{Host: host, Port: port}, logger)
	state := usecase.FetchState(cmd.Context(), client, keys)
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// --- read / write: one-shot parameter access ----------------------------------

var readCmd = &cobra.Command{
	Use:   "read <param>",
	Short: "Read one mediator parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := clientFromFlags(cmd)
		reply, err := client.Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printReply(reply.Value, reply.Raw)
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <param> <value>",
	Short: "Write one mediator parameter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := clientFromFlags(cmd)
		reply, err := client.Write(cmd.Context(), args[0], parseValue(args[1]))
		if err != nil {
			return err
		}
		printReply(reply.Value, reply.Raw)
		return nil
	},
}

func clientFromFlags(cmd *cobra.Command) *mediator.Client {
	host, _ := cmd.Flags().GetString("mediator-host")
	port, _ := cmd.Flags().GetString("mediator-port")
	return mediator.NewClient(mediator.ClientConfig{Host: host, Port: port}, logger)
}

// parseValue interprets a CLI value as int, then float, then string.
func parseValue(arg string) interface{} {
	if n, err := strconv.Atoi(arg); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	return arg
}

func printReply(value interface{}, raw []byte) {
	if raw != nil {
		fmt.Printf("undecoded reply (%d bytes): %x\n", len(raw), raw)
		return
	}
	fmt.Printf("%v\n", value)
}

func addMediatorFlags(cmd *cobra.Command) {
	cmd.Flags().String("mediator-host", envOr("MEDIATOR_HOST", "localhost"), "Mediator host")
	cmd.Flags().String("mediator-port", envOr("MEDIATOR_PORT", "8766"), "Mediator port")
}

func init() {
	mediatorCmd.Flags().String("port", envOr("PORT", "8766"), "Listen port")

	modulateCmd.Flags().String("audio", "", "Path to audio file (wav)")
	modulateCmd.Flags().Int("fps", 24, "Target frames per second (must be > 0)")
	modulateCmd.Flags().String("mapping", "", "JSON file or inline JSON array of band mappings")
	modulateCmd.Flags().String("output", "", "Path to write schedule JSON (offline mode)")
	modulateCmd.Flags().Bool("live", false, "Stream values live to the mediator")
	addMediatorFlags(modulateCmd)
	_ = modulateCmd.MarkFlagRequired("audio")

	bridgeCmd.Flags().String("mq-url", envOr("MQ_URL", "amqp://localhost"), "AMQP broker URL")
	bridgeCmd.Flags().String("queue", envOr("MQ_QUEUE", "controls"), "Queue name")
	addMediatorFlags(bridgeCmd)

	statusCmd.Flags().String("keys", "", "Comma-separated mediator keys (default: standard set)")
	addMediatorFlags(statusCmd)

	addMediatorFlags(readCmd)
	addMediatorFlags(writeCmd)

	rootCmd.AddCommand(mediatorCmd, modulateCmd, bridgeCmd, statusCmd, readCmd, writeCmd)
}
