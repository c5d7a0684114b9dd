// SPDX-License-Identifier: Apache-2.0

package ddlgen

import (
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/model"
)

type mappingDecisionsDoc struct {
	Metadata struct {
		Generated      string `json:"generated"`
		SourceDatabase string `json:"source_database"`
		CaseStyle      string `json:"case_style"`
	} `json:"metadata"`
	Mappings []model.MappingDecision `json:"mappings"`
}

// GenerateMappingDecisionsYAML renders the column type-mapping decisions
// gathered during Emit as the mapping_decisions.yml artifact.
func (e *Emitter) GenerateMappingDecisionsYAML(run model.AnalysisRun, mappings []model.MappingDecision) (string, error) {
	var doc mappingDecisionsDoc
	doc.Metadata.Generated = run.Metadata.AnalysisTimestamp
	doc.Metadata.SourceDatabase = run.Metadata.Database
	doc.Metadata.CaseStyle = string(e.prefs.CaseStyle)
	doc.Mappings = mappings

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling mapping decisions: %w", err)
	}
	return string(out), nil
}

// GenerateImprovementRecommendations renders the improvement_recommendations.md
// artifact: warehouse sizing, cluster-key candidates, semi-structured data
// notes, constraint enforcement caveats, trigger/function migration notes,
// security/governance boilerplate, and monitoring guidance.
func (e *Emitter) GenerateImprovementRecommendations(run model.AnalysisRun, recommendations []model.Recommendation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Snowflake Migration - Improvement Recommendations\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", run.Metadata.AnalysisTimestamp)
	fmt.Fprintf(&b, "**Source Database:** %s\n\n---\n\n", run.Metadata.Database)

	totalSizeGB := run.Volumetrics.TotalSizeGB
	b.WriteString("## 1. Warehouse Sizing & Cost Optimization\n\n")
	fmt.Fprintf(&b, "**Total Data Volume:** ~%.2f GB\n\n", totalSizeGB)
	b.WriteString("### Recommended Warehouse Configuration:\n\n")

	var whSize string
	switch {
	case totalSizeGB < 10:
		whSize = "X-SMALL to SMALL"
	case totalSizeGB < 100:
		whSize = "SMALL to MEDIUM"
	case totalSizeGB < 500:
		whSize = "MEDIUM to LARGE"
	default:
		whSize = "LARGE to X-LARGE"
	}

	fmt.Fprintf(&b, "- **Initial Load:** Use %s warehouse\n", whSize)
	b.WriteString("- **Auto-Suspend:** Set to 60 seconds for development, 300 seconds for production\n")
	b.WriteString("- **Auto-Resume:** Enable\n")
	b.WriteString("- **Multi-Cluster:** Consider for high concurrency workloads\n\n")
	b.WriteString("### Cost Optimization Tips:\n")
	b.WriteString("- Use separate warehouses for ETL vs analytical queries\n")
	b.WriteString("- Enable query result caching\n")
	b.WriteString("- Set resource monitors to prevent runaway costs\n")
	b.WriteString("- Review and optimize expensive queries\n\n")

	if len(recommendations) > 0 {
		b.WriteString("## 2. Performance Optimizations\n\n")
		b.WriteString("### Cluster Key Candidates:\n\n")
		for _, rec := range recommendations {
			if rec.Kind == model.ClusterKeyRecommendation {
				fmt.Fprintf(&b, "- **%s:** %s\n\n", rec.Table, rec.Recommendation)
			}
		}
	}

	hasJSON := false
	for _, schema := range run.Schemas {
		if len(schema.SpecialTypes.Summary["JSON"]) > 0 {
			hasJSON = true
			break
		}
	}
	if hasJSON {
		b.WriteString("## 3. Semi-Structured Data (JSON/VARIANT)\n\n")
		b.WriteString("JSON/JSONB columns have been mapped to VARIANT type. Consider:\n\n")
		b.WriteString("- Create projection views for frequently accessed JSON paths\n")
		b.WriteString("- Use `FLATTEN()` for array processing\n")
		b.WriteString("- Consider extracting stable fields to typed columns for better performance\n")
		b.WriteString("- Enable automatic clustering on frequently queried VARIANT columns\n\n")
	}

	b.WriteString("## 4. Constraints & Data Quality\n\n")
	b.WriteString("Primary Keys (PK) and Unique Keys (UK) are created but NOT ENFORCED on standard Snowflake tables.\n")
	b.WriteString("Foreign Keys (FK) are documented but not enforced.\n\n")
	b.WriteString("**Recommendations:**\n")
	b.WriteString("- Implement data quality checks in your ETL pipeline\n")
	b.WriteString("- Use Snowflake's Data Quality functions (EQUAL, NOT_NULL, etc.) in dbt or similar tools\n")
	b.WriteString("- Consider creating validation views or tasks\n")
	b.WriteString("- For enforced constraints, evaluate Snowflake Hybrid Tables (preview feature)\n\n")

	hasTriggers, hasFunctions := false, false
	for _, schema := range run.Schemas {
		if len(schema.Functions) > 0 {
			hasFunctions = true
		}
		for _, table := range schema.Tables {
			if len(table.Triggers) > 0 {
				hasTriggers = true
			}
		}
	}
	if hasTriggers || hasFunctions {
		b.WriteString("## 5. Triggers & Functions Migration\n\n")
		if hasTriggers {
			b.WriteString("### Triggers:\n")
			b.WriteString("PostgreSQL triggers are not directly portable to Snowflake. Consider:\n")
			b.WriteString("- Use Snowflake Streams to capture change data\n")
			b.WriteString("- Use Snowflake Tasks for scheduled processing\n")
			b.WriteString("- Implement trigger logic in your application or ETL layer\n\n")
		}
		if hasFunctions {
			b.WriteString("### Functions & Stored Procedures:\n")
			b.WriteString("PostgreSQL functions require manual conversion:\n")
			b.WriteString("- Review PL/pgSQL syntax and convert to Snowflake's JavaScript or SQL procedures\n")
			b.WriteString("- Many PostgreSQL functions have Snowflake equivalents\n")
			b.WriteString("- Consider UDFs (User Defined Functions) for custom logic\n\n")
		}
	}

	b.WriteString("## 6. Security & Governance\n\n")
	b.WriteString("### Role-Based Access Control (RBAC):\n")
	b.WriteString("Create roles for different access levels:\n\n")
	b.WriteString("```sql\n")
	b.WriteString("-- Reader role\n")
	b.WriteString("CREATE ROLE IF NOT EXISTS DATA_READER;\n")
	b.WriteString("GRANT USAGE ON DATABASE <database> TO ROLE DATA_READER;\n")
	b.WriteString("GRANT USAGE ON ALL SCHEMAS IN DATABASE <database> TO ROLE DATA_READER;\n")
	b.WriteString("GRANT SELECT ON ALL TABLES IN DATABASE <database> TO ROLE DATA_READER;\n\n")
	b.WriteString("-- Writer role\n")
	b.WriteString("CREATE ROLE IF NOT EXISTS DATA_WRITER;\n")
	b.WriteString("GRANT USAGE ON DATABASE <database> TO ROLE DATA_WRITER;\n")
	b.WriteString("GRANT USAGE ON ALL SCHEMAS IN DATABASE <database> TO ROLE DATA_WRITER;\n")
	b.WriteString("GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN DATABASE <database> TO ROLE DATA_WRITER;\n\n")
	b.WriteString("-- Admin role\n")
	b.WriteString("CREATE ROLE IF NOT EXISTS DATA_ADMIN;\n")
	b.WriteString("GRANT ALL ON DATABASE <database> TO ROLE DATA_ADMIN;\n")
	b.WriteString("```\n\n")
	b.WriteString("### Data Masking:\n")
	b.WriteString("Review tables for sensitive data (PII) and implement masking policies:\n")
	b.WriteString("- Email addresses\n- Social Security Numbers\n- Credit card numbers\n- Phone numbers\n\n")
	b.WriteString("### Row-Level Security:\n")
	b.WriteString("Consider implementing row-level security for multi-tenant data.\n\n")

	b.WriteString("## 7. Monitoring & Observability\n\n")
	b.WriteString("Set up monitoring for:\n")
	b.WriteString("- Query performance (slow queries, expensive queries)\n")
	b.WriteString("- Warehouse utilization and costs\n")
	b.WriteString("- Data pipeline failures\n")
	b.WriteString("- Storage growth\n\n")
	b.WriteString("**Tools:**\n")
	b.WriteString("- Snowflake's Query History & Account Usage views\n")
	b.WriteString("- Resource Monitors for cost control\n")
	b.WriteString("- Third-party monitoring tools (Datadog, New Relic, etc.)\n")

	return b.String()
}
