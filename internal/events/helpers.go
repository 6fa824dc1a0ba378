package events

import (
	"encoding/json"
	"fmt"
)

// SetDependencyChangeData sets the Data field with DependencyChangeData in a
// type-safe way.
func (e *Event) SetDependencyChangeData(data DependencyChangeData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert DependencyChangeData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetDependencyChangeData retrieves DependencyChangeData from the Data field.
func (e *Event) GetDependencyChangeData() (*DependencyChangeData, error) {
	var data DependencyChangeData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse DependencyChangeData: %w", err)
	}
	return &data, nil
}

// SetScheduleUpdatedData sets the Data field with ScheduleUpdatedData in a
// type-safe way.
func (e *Event) SetScheduleUpdatedData(data ScheduleUpdatedData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert ScheduleUpdatedData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetScheduleUpdatedData retrieves ScheduleUpdatedData from the Data field.
func (e *Event) GetScheduleUpdatedData() (*ScheduleUpdatedData, error) {
	var data ScheduleUpdatedData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse ScheduleUpdatedData: %w", err)
	}
	return &data, nil
}

// SetAllocationData sets the Data field with AllocationData in a type-safe
// way.
func (e *Event) SetAllocationData(data AllocationData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert AllocationData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetAllocationData retrieves AllocationData from the Data field.
func (e *Event) GetAllocationData() (*AllocationData, error) {
	var data AllocationData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse AllocationData: %w", err)
	}
	return &data, nil
}

// SetAllocationStatusChangedData sets the Data field with
// AllocationStatusChangedData in a type-safe way.
func (e *Event) SetAllocationStatusChangedData(data AllocationStatusChangedData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert AllocationStatusChangedData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetAllocationStatusChangedData retrieves AllocationStatusChangedData from
// the Data field.
func (e *Event) GetAllocationStatusChangedData() (*AllocationStatusChangedData, error) {
	var data AllocationStatusChangedData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse AllocationStatusChangedData: %w", err)
	}
	return &data, nil
}

// SetScheduleRecomputedData sets the Data field with ScheduleRecomputedData
// in a type-safe way.
func (e *Event) SetScheduleRecomputedData(data ScheduleRecomputedData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert ScheduleRecomputedData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetScheduleRecomputedData retrieves ScheduleRecomputedData from the Data
// field.
func (e *Event) GetScheduleRecomputedData() (*ScheduleRecomputedData, error) {
	var data ScheduleRecomputedData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse ScheduleRecomputedData: %w", err)
	}
	return &data, nil
}

// structToMap converts a struct to map[string]interface{} using JSON marshaling.
func structToMap(data interface{}) (map[string]interface{}, error) {
	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// mapToStruct converts a map[string]interface{} to a struct using JSON unmarshaling.
func mapToStruct(dataMap map[string]interface{}, target interface{}) error {
	bytes, err := json.Marshal(dataMap)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, target)
}
