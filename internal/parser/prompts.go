package parser

const extractionPrompt = `Extract incident information from this text and return a JSON object with these fields:
- studentName: The name of the student(s) involved
- category: The type of incident (choose from: disruptive-behavior, off-task, defiance-non-compliance, disrespectful-language, peer-conflict, respectful-participation, on-task-engagement, helping-peers, leadership-initiative, note)
- location: Where the incident occurred (room number, classroom, hallway, etc.)
- reporterName: Who is reporting this incident
- reporterEmail: Email of the reporter (if mentioned)
- description: A detailed description of what happened, including any additional context or notes

Analyze the text carefully and choose the most appropriate category based on the behavior described. For location, extract specific places mentioned. For description, include all relevant details about the incident.

Text: """%s"""

Return only the JSON object, no other text.`
