package conn

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//ReadJSONFile reads newline delimited JSON connection records from a
//.log, .jsonl, or gzip compressed .gz file. Lines which fail to decode
//are skipped and counted; a batch is never abandoned over stray
//malformed lines. Field-level validation is left to the analysis
//pipeline so that its skip accounting covers in-memory callers too.
func ReadJSONFile(path string, logger *log.Logger) ([]Record, int, error) {
	fileHandle, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer fileHandle.Close()

	var reader io.Reader = fileHandle
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(fileHandle)
		if err != nil {
			return nil, 0, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return ReadJSON(reader, logger)
}

//ReadJSON decodes newline delimited JSON connection records from an
//open stream, returning the decoded records and the count of lines
//which could not be decoded.
func ReadJSON(reader io.Reader, logger *log.Logger) ([]Record, int, error) {
	var records []Record
	unparsable := 0

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var record Record
		if err := json.UnmarshalFromString(line, &record); err != nil {
			unparsable++
			if logger != nil {
				logger.WithFields(log.Fields{
					"error": err.Error(),
				}).Warn("Skipping unparsable connection record")
			}
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return records, unparsable, err
	}
	return records, unparsable, nil
}
