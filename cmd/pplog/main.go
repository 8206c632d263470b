// Command pplog pretty-prints the JSON log stream produced by the logging
// package. Diagnostic correlation fields (traceId, businessId, ...) are
// pulled to the front and highlighted so a trace can be followed by eye.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/faaskit/fn-observation/businesscontext"
	"github.com/faaskit/fn-observation/logging"
)

const (
	nocolor = 0
	red     = 31
	green   = 32
	yellow  = 33
	blue    = 36
	gray    = 37
)

// correlationKeys are printed first, in this order, colorized.
var correlationKeys = []string{
	businesscontext.TraceIDKey,
	businesscontext.SpanIDKey,
	businesscontext.CorrelationIDKey,
	businesscontext.BusinessIDKey,
	businesscontext.TenantIDKey,
	businesscontext.UserIDKey,
	businesscontext.OperationKey,
}

type prettyPrinter func(entry map[string]interface{})

func main() {
	var CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flag.Usage = func() {
		fmt.Fprintf(CommandLine.Output(), "Usage: %v [OPTION]... [LOGFILE]\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Printf("\nJQ: https://stedolan.github.io/jq/\n"+
			"\tjq is great! You can use it to transform json streams.\n\n"+
			"\tHere's an example of filtering for a single trace:\n"+
			"\t\tcat myapp.log | jq 'select(.traceId == \"0af7...\")' | %s\n",
			os.Args[0])
	}
	flag.Parse()
	args := flag.Args()

	fi, err := os.Stdin.Stat()
	if err != nil {
		panic(err)
	}
	if fi.Mode()&os.ModeNamedPipe == 0 {
		// No piped input
		switch len(args) {
		case 1:
			filename := args[0]
			file, err := os.Open(filename)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer file.Close()
			processLines(bufio.NewReader(file), printLine)
		default:
			flag.Usage()
		}
	} else {
		// piped input
		processLines(os.Stdin, printLine)
	}
}

func processLines(r io.Reader, print prettyPrinter) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// Not JSON, pass through untouched.
			fmt.Println(line)
			continue
		}
		print(entry)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "reading standard input:", err)
	}
}

func extractAndRemove(m map[string]interface{}, key string) (string, bool) {
	if v, ok := m[key]; ok {
		value := fmt.Sprintf("%v", v)
		delete(m, key)
		return value, true
	}
	return "", false
}

func printLine(entry map[string]interface{}) {
	level, _ := extractAndRemove(entry, logging.LevelKey)
	timestamp, timestampExists := extractAndRemove(entry, logging.TimeKey)
	file, _ := extractAndRemove(entry, logging.FileKey)
	message, _ := extractAndRemove(entry, logging.MessageKey)
	callstack, callstackExists := extractAndRemove(entry, logging.CallstackKey)

	if callstackExists {
		callstack = fmt.Sprintf("callstack=\n%s", callstack)
	}

	if timestampExists {
		if parsedTime, err := time.Parse(time.RFC3339, timestamp); err == nil {
			timestamp = parsedTime.Format("0102 15:04:05.999")
		}
	}

	var correlation []string
	for _, key := range correlationKeys {
		if value, ok := extractAndRemove(entry, key); ok {
			correlation = append(correlation, colorize(blue, fmt.Sprintf("%s=%s", key, value)))
		}
	}

	var theRest []string
	for key, value := range entry {
		var keyValue string
		// quote the value if necessary
		if strings.Contains(fmt.Sprintf("%v", value), " ") {
			keyValue = fmt.Sprintf("%s=\"%v\"", key, value)
		} else {
			keyValue = fmt.Sprintf("%s=%v", key, value)
		}
		theRest = append(theRest, keyValue)
	}
	sort.Strings(theRest)
	fields := strings.Join(append(correlation, theRest...), " ")

	level = fmt.Sprintf("%-5s", level) // Have to pad it before colorization
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARN":
		level = colorize(yellow, level)
	case "ERROR", "FATAL":
		level = colorize(red, level)
	default:
		level = colorize(green, level)
	}

	fmt.Printf("%-17s %5s %-22s | \"%s\" %s %s\n", timestamp, level, file, message, fields, callstack)
}

func colorize(color int, str string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, str)
}
