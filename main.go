package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"docnav/internal/config"
	"docnav/internal/server"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	logfileFlag := flag.String("logfile", "", "Path to log file")
	dumpFlag := flag.String("dump", "", "Print the document links found under a directory and exit")
	envFlag := flag.String("env", ".env", "Environment file with DOCNAV_* settings")
	flag.Parse()

	// Version tag
	if *versionFlag {
		fmt.Printf("docnav LSP server version %s\n", Version)
		return
	}

	if err := config.LoadEnvFiles(*envFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if *dumpFlag != "" {
		if err := runDump(*dumpFlag, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	runtime.GOMAXPROCS(4)

	// Logging
	if *logfileFlag != "" {
		logFile, err := os.OpenFile(*logfileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Println("Starting docnav LSP server...")
		commonlog.Configure(2, logfileFlag) // Logger used by glsp
	} else {
		log.SetOutput(io.Discard)
		commonlog.Configure(0, nil)
	}

	if err := server.NewServer(false).RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
