// Package llm implements block converters backed by hosted language
// model APIs.
package llm

import (
	"fmt"

	"sqlseg/internal/domain"
)

func blockPrompt(block domain.Block) string {
	return fmt.Sprintf(
		"You are a senior data engineer experienced in migrating legacy PL/SQL code to PySpark.\n\n"+
			"Convert the following PL/SQL block into PySpark using the DataFrame API.\n"+
			"Return only executable Python code.\n\n"+
			"PL/SQL Block (block %d, type=%s):\n%s\n",
		block.Seq, block.Type, block.Text)
}

func scriptPrompt(script string) string {
	return "You are a senior data engineer experienced in migrating legacy PL/SQL code to PySpark.\n\n" +
		"Convert the following ENTIRE PL/SQL script into a single, clean, production-ready PySpark script using the DataFrame API.\n" +
		"Integrate all logic, deduplicate where possible, use idiomatic PySpark, and output only the final, unified, executable Python code. " +
		"Do not simply concatenate per-block code: merge and optimize for clarity and maintainability.\n\n" +
		"Full PL/SQL Script:\n" + script + "\n"
}
