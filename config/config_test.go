package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/cantonese-split/config"
	"github.com/angeloszaimis/cantonese-split/internal/analyzer"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:      ":48000",
			Environment:  config.EnvDev,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
			MaxBodyBytes: 1024,
		},
		Logging: config.LoggingConfig{Level: config.LogLevelInfo},
		Analyzer: config.AnalyzerConfig{
			Workers:    2,
			Dictionary: "embedded",
			Normalize:  analyzer.NormalizeNone,
			WarmupText: analyzer.DefaultWarmupText,
		},
	}
}

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir = GinkgoT().TempDir()
		Expect(os.Chdir(tempDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.Unsetenv("ANALYZER_WORKERS")
		os.Unsetenv("SERVER_ADDRESS")
		os.Unsetenv("ANALYZER_NORMALIZE")
	})

	Describe("Load", func() {
		Context("without a config file", func() {
			It("uses the defaults", func() {
				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(config.DefaultAddress))
				Expect(cfg.Server.Environment).To(Equal(config.EnvDev))
				Expect(cfg.Server.ReadTimeout).To(Equal(15 * time.Second))
				Expect(cfg.Server.IdleTimeout).To(Equal(60 * time.Second))
				Expect(cfg.Server.MaxBodyBytes).To(Equal(int64(1 << 20)))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
				Expect(cfg.Analyzer.Workers).To(Equal(runtime.NumCPU()))
				Expect(cfg.Analyzer.Dictionary).To(Equal("embedded"))
				Expect(cfg.Analyzer.Normalize).To(Equal(analyzer.NormalizeNone))
				Expect(cfg.Analyzer.WarmupText).To(Equal("不"))
			})

			It("fails when an explicit path does not exist", func() {
				_, err := config.Load(filepath.Join(tempDir, "missing.yaml"))
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a config file", func() {
			BeforeEach(func() {
				content := `
server:
  address: "127.0.0.1:9000"
  environment: "prod"
  read_timeout: "5s"
  max_body_bytes: 2048

logging:
  level: "debug"

analyzer:
  workers: 3
  dictionary: "/var/lib/cantonese/dict.db"
  normalize: "s2hk"
  read_digits: true
`
				Expect(os.MkdirAll(filepath.Join(tempDir, "config"), 0o755)).To(Succeed())
				Expect(os.WriteFile(filepath.Join(tempDir, "config", "config.yaml"), []byte(content), 0o644)).To(Succeed())
			})

			It("reads the values", func() {
				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal("127.0.0.1:9000"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvProd))
				Expect(cfg.Server.ReadTimeout).To(Equal(5 * time.Second))
				Expect(cfg.Server.WriteTimeout).To(Equal(15 * time.Second))
				Expect(cfg.Server.MaxBodyBytes).To(Equal(int64(2048)))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
				Expect(cfg.Analyzer.Workers).To(Equal(3))
				Expect(cfg.Analyzer.Normalize).To(Equal(analyzer.NormalizeS2HK))
				Expect(cfg.Analyzer.ReadDigits).To(BeTrue())
			})

			It("loads an explicit path", func() {
				cfg, err := config.Load(filepath.Join(tempDir, "config", "config.yaml"))
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Analyzer.Dictionary).To(Equal("/var/lib/cantonese/dict.db"))
			})

			It("maps the analyzer section onto analyzer options", func() {
				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())

				opts := cfg.AnalyzerOptions()
				Expect(opts.Dictionary).To(Equal("/var/lib/cantonese/dict.db"))
				Expect(opts.Normalize).To(Equal(analyzer.NormalizeS2HK))
				Expect(opts.ReadDigits).To(BeTrue())
				Expect(opts.WarmupText).To(Equal("不"))
			})

			It("lets environment variables override the file", func() {
				os.Setenv("SERVER_ADDRESS", ":7000")
				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":7000"))
			})
		})

		Context("with a .env file", func() {
			It("loads variables from it", func() {
				Expect(os.WriteFile(filepath.Join(tempDir, ".env"), []byte("ANALYZER_WORKERS=5\n"), 0o644)).To(Succeed())

				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Analyzer.Workers).To(Equal(5))
			})
		})

		Context("with invalid values", func() {
			It("rejects an unknown normalization", func() {
				os.Setenv("ANALYZER_NORMALIZE", "t2s")
				_, err := config.Load("")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Validate", func() {
		It("accepts a valid configuration", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		DescribeTable("rejects",
			func(mutate func(*config.Config)) {
				cfg := validConfig()
				mutate(cfg)
				Expect(cfg.Validate()).NotTo(Succeed())
			},
			Entry("an address without a port", func(c *config.Config) { c.Server.Address = "localhost" }),
			Entry("a non-numeric port", func(c *config.Config) { c.Server.Address = ":http" }),
			Entry("an invalid host", func(c *config.Config) { c.Server.Address = "bad host:80" }),
			Entry("an unknown environment", func(c *config.Config) { c.Server.Environment = "qa" }),
			Entry("a zero read timeout", func(c *config.Config) { c.Server.ReadTimeout = 0 }),
			Entry("a negative idle timeout", func(c *config.Config) { c.Server.IdleTimeout = -time.Second }),
			Entry("a zero body limit", func(c *config.Config) { c.Server.MaxBodyBytes = 0 }),
			Entry("an unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }),
			Entry("zero workers", func(c *config.Config) { c.Analyzer.Workers = 0 }),
			Entry("an empty dictionary", func(c *config.Config) { c.Analyzer.Dictionary = "" }),
			Entry("an unknown normalization", func(c *config.Config) { c.Analyzer.Normalize = "t2s" }),
		)
	})
})
