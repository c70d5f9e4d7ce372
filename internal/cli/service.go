package cli

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	installCmd = &cobra.Command{
		Use:   "install [server-binary]",
		Short: "Install the orchestrator server as a background service",
		Args:  cobra.MaximumNArgs(1),
		Run:   runInstall,
	}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the orchestrator service",
		Run:   runStart,
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop the orchestrator service",
		Run:   runStop,
	}

	uninstallCmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Uninstall the orchestrator service",
		Run:   runUninstall,
	}

	logsCmd = &cobra.Command{
		Use:   "logs",
		Short: "Tail the service logs",
		Run:   runLogs,
	}
)

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(logsCmd)
}

// program supervises the storysynth server binary as a child process.
// The service manager's Start/Stop both run in the kardianos/service
// lifecycle, not in the storyctl process itself.
type program struct {
	cmd *exec.Cmd
}

func (p *program) Start(s service.Service) error {
	go p.run()
	return nil
}

func (p *program) run() {
	if err := setupServiceLogging(); err != nil {
		log.Printf("Failed to setup file logging: %v", err)
	}

	log.Println("Service starting...")

	bin := viper.GetString("server_binary")
	if bin == "" {
		log.Println("No server binary configured. Please run 'storyctl install [server-binary]' first.")
		return
	}

	p.cmd = exec.Command(bin)
	p.cmd.Stdout = log.Writer()
	p.cmd.Stderr = log.Writer()

	if err := p.cmd.Run(); err != nil {
		log.Printf("Server process exited: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	log.Println("Service stopping...")
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return nil
}

func getServiceConfig(configPath string) *service.Config {
	ex, err := os.Executable()
	if err != nil {
		log.Fatal(err)
	}

	args := []string{"service-run"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	return &service.Config{
		Name:        "storysynth-orchestrator",
		DisplayName: "Story Synthesis Orchestrator",
		Description: "Runs the storysynth audio story synthesis server.",
		Executable:  ex,
		Arguments:   args,
	}
}

// Special hidden command that the service manager runs.
var serviceRunCmd = &cobra.Command{
	Use:    "service-run",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := setupServiceLogging(); err != nil {
			log.Printf("Failed to setup file logging: %v", err)
		}
		log.Println("Starting service-run command...")

		prg := &program{}
		s, err := service.New(prg, getServiceConfig(""))
		if err != nil {
			log.Fatalf("Failed to create service: %v", err)
		}

		svcLogger, err := s.Logger(nil)
		if err != nil {
			log.Printf("Failed to get system logger: %v", err)
		} else {
			_ = svcLogger.Info("storysynth service starting...")
		}

		if err = s.Run(); err != nil {
			if svcLogger != nil {
				_ = svcLogger.Error(err)
			}
			log.Fatalf("Service failed to run: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serviceRunCmd)
}

func runInstall(cmd *cobra.Command, args []string) {
	var configPath string
	if len(args) > 0 {
		bin := args[0]
		absPath, err := exec.LookPath(bin)
		if err != nil {
			absPath = bin
		}
		viper.Set("server_binary", absPath)

		var errSave error
		configPath, errSave = SaveConfig("", "")
		if errSave != nil {
			log.Fatalf("Failed to save config: %v", errSave)
		}
		fmt.Printf("Configured server binary: %s\n", absPath)
	} else if cfgFile != "" {
		configPath = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = home + "/.storyctl.yaml"
		}
	}

	s, err := service.New(&program{}, getServiceConfig(configPath))
	if err != nil {
		log.Fatal(err)
	}

	if err = s.Install(); err != nil {
		log.Fatalf("Failed to install service: %v", err)
	}
	fmt.Println("Service installed successfully.")
}

func runStart(cmd *cobra.Command, args []string) {
	s, err := service.New(&program{}, getServiceConfig(""))
	if err != nil {
		log.Fatal(err)
	}
	if err = s.Start(); err != nil {
		log.Fatalf("Failed to start service: %v", err)
	}
	fmt.Println("Service started.")
}

func runStop(cmd *cobra.Command, args []string) {
	s, err := service.New(&program{}, getServiceConfig(""))
	if err != nil {
		log.Fatal(err)
	}
	if err = s.Stop(); err != nil {
		log.Fatalf("Failed to stop service: %v", err)
	}
	fmt.Println("Service stopped.")
}

func runUninstall(cmd *cobra.Command, args []string) {
	s, err := service.New(&program{}, getServiceConfig(""))
	if err != nil {
		log.Fatal(err)
	}
	if err = s.Uninstall(); err != nil {
		log.Fatalf("Failed to uninstall service: %v", err)
	}
	fmt.Println("Service uninstalled.")
}

func getLogFilePath() string {
	return "/tmp/storysynth-service.log"
}

func setupServiceLogging() error {
	logFile := getLogFilePath()
	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error opening file: %v", err)
	}
	log.SetOutput(f)
	return nil
}

func runLogs(cmd *cobra.Command, args []string) {
	logFile := getLogFilePath()
	fmt.Printf("Tailing logs from %s...\n", logFile)

	c := exec.Command("tail", "-f", logFile)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		fmt.Printf("Error tailing logs: %v\n", err)
	}
}
