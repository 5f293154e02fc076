package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relayforge/gateway-console/config"
	"github.com/relayforge/gateway-console/console"
	"github.com/relayforge/gateway-console/console/service"
	"github.com/relayforge/gateway-console/console/store"
	"github.com/relayforge/gateway-console/database"
	"github.com/relayforge/gateway-console/database/model"
	"github.com/relayforge/gateway-console/logger"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runConsole() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	var server *console.Server

	server = console.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = console.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			return
		}
	}
}

func resetSetting() {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}
	err = settingService.ResetSettings()
	if err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func showSetting() {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}
	settings, err := settingService.AllSettings()
	if err != nil {
		fmt.Println("get current settings failed:", err)
		return
	}
	fmt.Println("current console settings as follows:")
	for key, value := range settings {
		fmt.Printf("%s: %s\n", key, value)
	}
}

func updateSetting(port int, listen string, gatewayURL string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}

	if port > 0 {
		err := settingService.SetPort(port)
		if err != nil {
			fmt.Println("set port failed:", err)
		} else {
			fmt.Printf("set port %v success\n", port)
		}
	}
	if listen != "" {
		err := settingService.SetListen(listen)
		if err != nil {
			fmt.Println("set listen failed:", err)
		} else {
			fmt.Printf("set listen %v success\n", listen)
		}
	}
	if gatewayURL != "" {
		err := settingService.SetGatewayURL(gatewayURL)
		if err != nil {
			fmt.Println("set gateway url failed:", err)
		} else {
			fmt.Printf("set gateway url %v success\n", gatewayURL)
		}
	}
}

// clearCredential removes stored credentials so a wedged session can be
// recovered from the command line.
func clearCredential(target string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	st := store.New(database.GetDB())
	switch target {
	case "admin":
		st.Clear(model.RoleAdmin)
	case "user":
		st.Clear(model.RoleUser)
	case "all":
		st.Clear(model.RoleAdmin)
		st.Clear(model.RoleUser)
	default:
		fmt.Println("unknown credential target:", target)
		return
	}
	fmt.Println("cleared credential:", target)
}

func main() {
	config.LoadEnv()

	var rootCmd = &cobra.Command{
		Use: "gw-console",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the console server",
		Run: func(cmd *cobra.Command, args []string) {
			runConsole()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Manage console settings",
	}

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset all settings",
		Run: func(cmd *cobra.Command, args []string) {
			resetSetting()
		},
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			port, _ := cmd.Flags().GetInt("port")
			listen, _ := cmd.Flags().GetString("listen")
			gatewayURL, _ := cmd.Flags().GetString("gateway-url")
			updateSetting(port, listen, gatewayURL)
		},
	}

	updateCmd.Flags().Int("port", 0, "set console port")
	updateCmd.Flags().String("listen", "", "set console listen address")
	updateCmd.Flags().String("gateway-url", "", "set gateway API base URL")

	var credentialCmd = &cobra.Command{
		Use:   "credential",
		Short: "Manage stored credentials",
	}

	var credentialClearCmd = &cobra.Command{
		Use:   "clear [admin|user|all]",
		Short: "Clear a stored credential",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			clearCredential(args[0])
		},
	}

	settingCmd.AddCommand(resetCmd, showCmd, updateCmd)
	credentialCmd.AddCommand(credentialClearCmd)

	rootCmd.AddCommand(runCmd, settingCmd, credentialCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
