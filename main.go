package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/debthin/debthin/internal/config"
	"github.com/debthin/debthin/internal/ecosystem"
	"github.com/debthin/debthin/internal/gateway"
	"github.com/debthin/debthin/internal/logging"
	"github.com/debthin/debthin/internal/server"
	"github.com/debthin/debthin/internal/server/routes"
	"github.com/debthin/debthin/internal/storage"
	"github.com/debthin/debthin/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["ecosystems"] = config.EcosystemNames(cfg.Ecosystems)
		fields["storage_backend"] = cfg.Global.StorageBackend
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	set, err := ecosystem.NewSet(cfg.Ecosystems)
	if err != nil {
		fmt.Fprintf(stdErr, "构建生态集合失败: %v\n", err)
		return 1
	}

	store, err := buildStore(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化存储后端失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["ecosystems"] = config.EcosystemNames(cfg.Ecosystems)
	fields["storage_backend"] = cfg.Global.StorageBackend
	fields["listen_port"] = cfg.Global.ListenPort
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, set, store, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("debthin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 DEBTHIN_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("DEBTHIN_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// buildStore 按配置选择存储后端。memory 仅用于演示：起服务即为空库，
// 所有已识别路径都会 404。
func buildStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Global.StorageBackend {
	case config.StorageBackendFS:
		return storage.NewFileStore(cfg.Global.StoragePath)
	case config.StorageBackendS3:
		return storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		})
	case config.StorageBackendMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("未知存储后端: %s", cfg.Global.StorageBackend)
	}
}

func startHTTPServer(cfg *config.Config, set *ecosystem.Set, store storage.Store, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	handler := gateway.NewHandler(set, store, logger, cfg.Global.CacheMaxAge.DurationValue())

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Gateway:    handler,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterEcosystemRoutes(app, set)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
