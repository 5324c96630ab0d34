//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package main is a command line tool that validates similarity search
// experiment configurations: the space, the method list and their parameters.
package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/apstndb/simparams/internal/methods"
)

type globalOptions struct {
	Experiment experimentOptions `group:"experiment"`
}

// We can't use `default` because simparams uses multiple flags.NewParser() to process config files and flags.
type experimentOptions struct {
	DistType        string   `long:"distType" description:"Distance value type: float, double or int" default-mask:"float"`
	SpaceType       string   `long:"spaceType" short:"s" description:"Space type with parameters, e.g. l2 or lp:p=0.5"`
	Dimension       uint     `long:"dimension" description:"Optional dimensionality, 0 means any"`
	ThreadTestQty   *uint    `long:"threadTestQty" description:"Number of test threads" default-mask:"1"`
	AppendToResFile bool     `long:"appendToResFile" description:"Do not override information in the result files"`
	OutFilePrefix   string   `long:"outFilePrefix" short:"o" description:"Output file prefix"`
	TestSetQty      uint     `long:"testSetQty" short:"b" description:"Number of test sets obtained by bootstrapping; ignored if queryFile is specified"`
	DataFile        string   `long:"dataFile" short:"i" description:"(required) Input data file"`
	QueryFile       string   `long:"queryFile" short:"q" description:"Query file"`
	MaxNumData      uint     `long:"maxNumData" description:"If non-zero, only the first maxNumData elements are used"`
	MaxNumQuery     uint     `long:"maxNumQuery" description:"If non-zero, use maxNumQuery query elements (required in the case of bootstrapping)"`
	KNN             string   `long:"knn" short:"k" description:"Comma-separated values of K for the k-NN search"`
	Eps             float64  `long:"eps" description:"The parameter for the eps-approximate k-NN search"`
	Range           string   `long:"range" short:"r" description:"Comma-separated radii for the range search"`
	Method          []string `long:"method" short:"m" description:"Method with parameters, e.g. --method=hnsw:M=16,efConstruction=200. Repeatable."`
	MethodsFile     string   `long:"methods-file" description:"YAML file with the space and the method list"`
	Output          string   `long:"output" description:"Summary format" choice:"text" choice:"json" default-mask:"text"`
	ShowParams      bool     `long:"show-params" description:"Print the explicitly given parameters of the space and every method as a table; json output always carries them as params"`
	ListMethods     bool     `long:"list-methods" description:"List known methods and spaces and exit"`
	LogLevel        string   `long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default-mask:"warn"`
	Help            bool     `long:"help" short:"h" hidden:"true"`
}

const cnfFileName = ".simparams.cnf"

func main() {
	err := run(os.Args[1:], afero.NewOsFs(), defaultConfigFiles(), os.Stdout, os.Stderr)
	var exitCodeErr *ExitCodeError
	if err != nil && !errors.Is(err, errHelp) && !errors.As(err, &exitCodeErr) {
		printError(os.Stderr, err)
	}
	os.Exit(GetExitCode(err))
}

// errHelp is returned after help has been written.
var errHelp = errors.New("help requested")

func run(args []string, fs afero.Fs, cnfFiles []string, stdout, stderr io.Writer) error {
	// all builders are registered by package initialization
	methods.Methods.Seal()
	methods.Spaces.Seal()

	opts, err := parseOptions(args, fs, cnfFiles, stdout)
	if err != nil {
		return err
	}

	logger, err := newLogger(opts.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if opts.ListMethods {
		return writeRegistry(stdout)
	}

	exp, err := buildExperiment(opts, fs, logger)
	if err != nil {
		// every problem of the configuration is reported, not only the first one
		for _, e := range multierr.Errors(err) {
			printError(stderr, e)
		}
		return NewExitCodeError(exitCodeError)
	}

	if opts.Output == "json" {
		return writeJSON(stdout, exp)
	}
	if err := writeSummary(stdout, exp); err != nil {
		return err
	}
	if opts.ShowParams {
		return writeParamsTable(stdout, exp)
	}
	return nil
}

func parseOptions(args []string, fs afero.Fs, cnfFiles []string, helpOut io.Writer) (*experimentOptions, error) {
	var gopts globalOptions

	// process config files at first
	configFileParser := flags.NewParser(&gopts, flags.None)
	if err := readConfigFile(fs, configFileParser, cnfFiles); err != nil {
		return nil, fmt.Errorf("invalid config file format: %w", err)
	}

	// then, process command line options with higher precedence than configuration files
	flagParser := flags.NewParser(&gopts, flags.PassDoubleDash)

	// Workaround to avoid to display config value as default
	parserForHelp := flags.NewParser(&globalOptions{}, flags.None)

	rest, err := flagParser.ParseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if gopts.Experiment.Help {
		parserForHelp.WriteHelp(helpOut)
		return nil, errHelp
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("invalid options: unexpected arguments %q", rest)
	}
	return &gopts.Experiment, nil
}

func defaultConfigFiles() []string {
	var cnfFiles []string
	if currentUser, err := user.Current(); err == nil {
		cnfFiles = append(cnfFiles, filepath.Join(currentUser.HomeDir, cnfFileName))
	}

	cwd, _ := os.Getwd() // ignore err
	return append(cnfFiles, filepath.Join(cwd, cnfFileName))
}

func readConfigFile(fs afero.Fs, parser *flags.Parser, cnfFiles []string) error {
	iniParser := flags.NewIniParser(parser)
	for _, cnfFile := range cnfFiles {
		// skip if missing
		if _, err := fs.Stat(cnfFile); err != nil {
			continue
		}
		if err := parseIniFile(fs, iniParser, cnfFile); err != nil {
			return err
		}
	}
	return nil
}

func parseIniFile(fs afero.Fs, iniParser *flags.IniParser, cnfFile string) error {
	f, err := fs.Open(cnfFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := iniParser.Parse(f); err != nil {
		return fmt.Errorf("%s: %w", cnfFile, err)
	}
	return nil
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "error: %v\n", err) //nolint:errcheck
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cmp.Or(level, "warn"))
	if err != nil {
		return nil, err
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
