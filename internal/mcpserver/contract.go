package mcpserver

// FrontMatterContract describes the YAML front matter block that Jera emits
// at the top of every generated collection page.
const FrontMatterContract = `# Jera Front Matter Contract

Every generated collection page starts with a YAML front matter block:

` + "```" + `yaml
---
title: Virtual Wardrobe Try-On      # always present
description: One-line summary.      # always present (falls back to a generic string)
tags:                               # only when the source had a "## Tags" section
    - nova
    - bedrock
technologies:                       # only when the source had a "## Technologies" section
    - Amazon Nova Canvas
difficulty: medium                  # lowercased; defaults to "medium"
language: python                    # only on loose snippet pages
---
` + "```" + `

## Rules

1. **Keys appear in the order shown above.** Output is deterministic: the
   same source always renders the same bytes.
2. **title** comes from the first level-1 heading of the source, or a
   humanized folder/file name when the source has none.
3. **description** is the first paragraph after the title; experiment pages
   prefer the content under ` + "`" + `## Overview` + "`" + `.
4. **tags** and **technologies** are comma- or list-separated values from
   the matching ` + "`" + `##` + "`" + ` section, deduplicated in first-seen order. Absent
   sections produce no key at all.
5. **difficulty** is the first word under ` + "`" + `## Difficulty` + "`" + `, lowercased.
6. **language** is derived from the file extension of loose snippet files
   (` + "`" + `.py` + "`" + ` → ` + "`" + `python` + "`" + `, ` + "`" + `.md` + "`" + ` → ` + "`" + `markdown` + "`" + `).
7. After the body, each page carries a "View on GitHub" block linking back
   to the source folder or file.

Pages are regenerated from their sources on every sync; do not edit them in
place.
`
