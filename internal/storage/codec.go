package storage

import (
	"encoding/json"
	"errors"

	"phonotaxis/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeCorpusRecords(records []model.CorpusRecord) ([]byte, error) {
	stamped := make([]model.CorpusRecord, len(records))
	copy(stamped, records)
	for i := range stamped {
		stamped[i].VersionedRecord = currentVersion()
	}
	return json.Marshal(stamped)
}

func DecodeCorpusRecords(data []byte) ([]model.CorpusRecord, error) {
	var records []model.CorpusRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := checkVersion(record.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func EncodeWalkRun(run model.WalkRun) ([]byte, error) {
	run.VersionedRecord = currentVersion()
	return json.Marshal(run)
}

func DecodeWalkRun(data []byte) (model.WalkRun, error) {
	var run model.WalkRun
	if err := json.Unmarshal(data, &run); err != nil {
		return model.WalkRun{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.WalkRun{}, err
	}
	return run, nil
}

func currentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
