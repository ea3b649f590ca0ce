package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))
}

// CountryMetadata DDL methods
func (c CountryMetadata) TableDDL() string {
	return generateDDL(c, c.TableName())
}

func (c CountryMetadata) IndexDDL() []string {
	return []string{}
}

func (c CountryMetadata) TableName() string {
	return "country_metadata"
}

// Peacekeeper DDL methods
func (p Peacekeeper) TableDDL() string {
	return generateDDL(p, p.TableName())
}

func (p Peacekeeper) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_peacekeepers_country ON peacekeepers(country_code);",
	}
}

func (p Peacekeeper) TableName() string {
	return "peacekeepers"
}

// CountryMetric DDL methods
func (m CountryMetric) TableDDL() string {
	return generateDDL(m, m.TableName())
}

func (m CountryMetric) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_metrics_period ON country_metrics(year, month, country_code);",
	}
}

func (m CountryMetric) TableName() string {
	return "country_metrics"
}

// SQLiteDDL returns statements that create all tables and indexes.
func SQLiteDDL() []string {
	var res []string
	for _, m := range DDLModels() {
		res = append(res, m.TableDDL())
		res = append(res, m.IndexDDL()...)
	}
	return res
}

// DDLModels returns all models in creation order.
func DDLModels() []DDLGenerator {
	return []DDLGenerator{
		CountryMetadata{},
		Peacekeeper{},
		CountryMetric{},
	}
}
