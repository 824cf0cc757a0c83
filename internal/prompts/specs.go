package prompts

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "category": "<Category>",
  "subcategory": "<Subcategory>",
  "summary": "<4-6 sentence summary of the document>",
  "key_themes": ["<Theme 1>", "<Theme 2>", "<Theme 3>"]
}

Field constraints:
- category: Must exactly match one of the available categories.
- subcategory: Must exactly match one of the subcategories listed under
  the chosen category.
- summary: 4-6 sentences, neutral third-person, strictly factual.
- key_themes: Exactly three short strings, roughly 5-15 words each.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not output anything else: no explanations, commentary, or extra keys`
