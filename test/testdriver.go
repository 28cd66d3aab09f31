package test

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/jxy918/casino-holdem/manager"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/godo.v2/glob"
	"gopkg.in/yaml.v3"
)

var testDriverLogger = log.With().Str("logger_name", "test::testdriver").Logger()

type ScriptTestResult struct {
	Filename string
	Name     string
	Passed   bool
	Failures []error
	Disabled bool
}

func (s *ScriptTestResult) addError(e error) {
	s.Failures = append(s.Failures, e)
}

// runs hand scripts and captures the results
// and output the results at the end. Without a manager the rounds are
// driven directly.
type TestDriver struct {
	ScriptResult map[string]*ScriptTestResult
	ScriptFiles  []string
	Manager      *manager.RoundManager
}

func NewTestDriver() *TestDriver {
	return &TestDriver{ScriptResult: make(map[string]*ScriptTestResult), ScriptFiles: make([]string, 0)}
}

func LoadHandScript(filename string) (*HandScript, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load file: %s", filename)
	}
	var handScript HandScript
	err = yaml.Unmarshal(data, &handScript)
	if err != nil {
		return nil, errors.Wrapf(err, "Loading yaml failed: %s", filename)
	}
	handScript.filename = filename
	return &handScript, nil
}

func (t *TestDriver) RunHandScript(filename string) error {
	fmt.Printf("Running hand script: %s\n", filename)
	result := &ScriptTestResult{Filename: filename, Failures: make([]error, 0)}
	t.ScriptResult[filename] = result
	t.ScriptFiles = append(t.ScriptFiles, filename)

	handScript, err := LoadHandScript(filename)
	if err != nil {
		testDriverLogger.Error().Msgf("%v", err)
		result.addError(err)
		return err
	}
	result.Name = handScript.Name
	if handScript.Disabled {
		result.Disabled = true
		return nil
	}
	handScript.result = result

	e := handScript.run(t.Manager)
	if e != nil {
		result.addError(e)
	}
	result.Passed = len(result.Failures) == 0
	if !result.Passed {
		return fmt.Errorf("Script %s failed", filename)
	}
	return nil
}

func (t *TestDriver) ReportResult() bool {
	passed := true
	for _, scriptFile := range t.ScriptFiles {
		result := t.ScriptResult[scriptFile]
		if result.Disabled {
			fmt.Printf("Script %s is disabled\n", result.Filename)
			continue
		}

		if len(result.Failures) != 0 {
			passed = false
			// failed and report errors
			fmt.Printf("Script %s failed\n", scriptFile)
			fmt.Printf("===========================\n")
			for _, e := range result.Failures {
				fmt.Printf("%s\n", e.Error())
			}
			fmt.Printf("===========================\n")
		}
	}
	return passed
}

func RunHandScriptTests(fileOrDir string, testName string, m *manager.RoundManager) error {
	info, err := os.Stat(fileOrDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist", fileOrDir)
	} else if err != nil {
		return errors.Wrapf(err, "Cannot stat %s", fileOrDir)
	}
	pattern := fileOrDir
	if info.IsDir() {
		pattern = fmt.Sprintf("%s/**/*.yaml", fileOrDir)
	}
	patterns := []string{pattern}
	files, _, err := glob.Glob(patterns)
	if err != nil {
		return errors.Wrapf(err, "Failed to get hand script file(s) from dir: %s", fileOrDir)
	}

	testDriver := NewTestDriver()
	testDriver.Manager = m
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if testName != "" {
			if !strings.Contains(file.Name(), testName) {
				continue
			}
		}
		fmt.Printf("----------------------------------------------\n")
		testDriver.RunHandScript(file.Path)
		fmt.Printf("----------------------------------------------\n")
	}

	passed := testDriver.ReportResult()
	if !passed {
		return fmt.Errorf("One or more scripts failed")
	}
	fmt.Printf("All scripts passed\n")
	return nil
}
